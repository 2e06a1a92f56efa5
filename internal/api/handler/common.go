package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// decode parses and validates a JSON request body. It writes the error
// response itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(dest); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errs := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				tag := e.Tag()
				switch tag {
				case "required":
					errs[field] = "field is required"
				case "email":
					errs[field] = "invalid email format"
				case "min":
					errs[field] = "must be at least " + e.Param() + " characters"
				case "max":
					errs[field] = "must be at most " + e.Param() + " characters"
				default:
					errs[field] = "validation failed on " + tag
				}
			}
			response.BadRequest(w, errs)
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}

// pathID extracts and parses an ObjectID URL parameter. It writes the error
// response itself and reports success via the bool.
func pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		response.BadRequest(w, "missing "+param)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		response.BadRequest(w, "invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseBodyID parses an ObjectID carried in a request body, writing the
// error response on failure.
func parseBodyID(w http.ResponseWriter, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		response.BadRequest(w, "invalid id")
		return primitive.NilObjectID, err
	}
	return id, nil
}

// respondError maps service errors onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrAccessDenied),
		errors.Is(err, domain.ErrAdminRequired),
		errors.Is(err, domain.ErrOwnerRequired):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrColumnNotFound),
		errors.Is(err, domain.ErrTemplateInactive),
		errors.Is(err, domain.ErrCannotRemoveOwner):
		response.BadRequest(w, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled service error")
		response.InternalError(w, "internal server error")
	}
}
