package errors

import (
	"errors"

	"github.com/aws/smithy-go"
)

// AWSError classifies an error returned by an AWS SDK call into the routing
// core's error taxonomy. DynamoDB not-found responses become low-severity
// errors, conditional-check and throttling responses medium-severity
// routing errors; anything else falls back to a generic high-severity
// dependency failure so callers never have to know which AWS error codes
// exist.
func AWSError(operation, resource string, cause error) *RoutingError {
	if cause == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(cause, &apiErr) {
		return NewError(ErrorTypeRouting, "aws_dependency_error", operation+": "+cause.Error()).
			WithResource(resource).WithCause(cause).WithSeverity(SeverityHigh).Build()
	}

	switch apiErr.ErrorCode() {
	case "ResourceNotFoundException":
		return NewError(ErrorTypeMissingVertex, "aws_resource_not_found", apiErr.ErrorMessage()).
			WithResource(resource).WithCause(cause).WithSeverity(SeverityLow).Build()
	case "ConditionalCheckFailedException", "TransactionCanceledException":
		return NewError(ErrorTypeRouting, "aws_conditional_check_failed", apiErr.ErrorMessage()).
			WithResource(resource).WithCause(cause).WithSeverity(SeverityMedium).Build()
	case "ProvisionedThroughputExceededException", "RequestLimitExceeded", "ThrottlingException":
		return NewError(ErrorTypeRouting, "aws_throughput_exceeded", apiErr.ErrorMessage()).
			WithResource(resource).WithCause(cause).WithSeverity(SeverityMedium).Build()
	default:
		return NewError(ErrorTypeRouting, "aws_dependency_error", apiErr.ErrorMessage()).
			WithResource(resource).WithCause(cause).WithSeverity(SeverityHigh).Build()
	}
}
