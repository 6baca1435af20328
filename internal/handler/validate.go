package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationMap flattens a binding error into the aggregated
// field -> message payload. messages maps struct field names to their
// json name and error code; unknown fields get a generic code.
func validationMap(err error, messages map[string][2]string) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = "INVALID_REQUEST_BODY"
		return out
	}

	for _, fe := range verrs {
		if m, ok := messages[fe.Field()]; ok {
			out[m[0]] = m[1]
			continue
		}
		out[strings.ToLower(fe.Field())] = "INVALID_" + strings.ToUpper(fe.Field())
	}
	return out
}
