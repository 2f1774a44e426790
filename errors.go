package dynammo

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrorCode returns the machine readable error kind attached to a client
// error, such as "ConditionalCheckFailedException". An empty string is
// returned for errors that carry no code.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsConditionalCheckFailed reports whether the request was rejected because
// its condition expression evaluated to false.
func IsConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
