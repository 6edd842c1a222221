package helper

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"

	"moltpedia/models"
)

// HTTPHelper maps the typed domain errors onto HTTP responses and runs
// request validation with translated messages.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

func (u *HTTPHelper) getTypeData(i interface{}) string {
	v := reflect.ValueOf(i)
	v = reflect.Indirect(v)
	return v.Type().String()
}

// GetStatusCode resolves a domain error to its HTTP status code.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch u.getTypeData(err) {
	case "models.ErrorNotFound":
		return http.StatusNotFound
	case "models.ErrorConflict":
		return http.StatusConflict
	case "models.ErrorUnauthorized":
		return http.StatusUnauthorized
	case "models.ErrorForbidden":
		return http.StatusForbidden
	case "models.ErrorRateLimited":
		return http.StatusTooManyRequests
	case "models.ErrorContentTooLarge":
		return http.StatusRequestEntityTooLarge
	case "models.ErrorInvalidStateTransition", "models.ErrorPatchMismatch":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// SendError writes the error response for a domain error. Conflicts carry
// the article's true current version so the caller can re-fetch and retry.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if conflict, ok := err.(models.ErrorConflict); ok && conflict.CurrentVersion > 0 {
		body["current_version"] = conflict.CurrentVersion
	}
	c.JSON(u.GetStatusCode(err), body)
}

// SendValidationError translates validator errors into a field -> messages
// map.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := err.Field()
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": errorResponse})
}

// ValidateStruct runs the v9 validator over a bound request and writes the
// response itself on failure.
func (u *HTTPHelper) ValidateStruct(c *gin.Context, req interface{}) bool {
	if u.Validate == nil {
		return true
	}
	if err := u.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			u.SendValidationError(c, validationErrors)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return false
	}
	return true
}
