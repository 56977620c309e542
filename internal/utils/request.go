package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/utils/response"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseAndValidate decodes the JSON body into dest and runs struct
// validation, writing the failure response itself. Returns false when the
// handler should bail out.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError(err.Error()))

		return false
	}

	if err := validate.Struct(dest); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, appErrors.ValidationError("invalid input data"))
		}

		return false
	}

	return true
}

// ParseID reads a path parameter as a document id.
func ParseID(r *http.Request, name string) (bson.ObjectID, error) {

	raw := r.PathValue(name)
	if raw == "" {
		return bson.NilObjectID, appErrors.BadRequestError("Missing " + name + " parameter")
	}

	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.NilObjectID, appErrors.BadRequestError("Invalid " + name + " format").WithError(err)
	}

	return id, nil
}
