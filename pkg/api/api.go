// Package api defines the contracts for API requests and responses and the
// helpers for building API Gateway proxy responses. It decouples the wire
// format from the internal domain models.
package api

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// GatewayResponse is a helper to create a valid APIGatewayProxyResponse.
func GatewayResponse(statusCode int, body string) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}, nil
}

// Success formats a successful JSON response.
func Success(statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return Error(500, "Internal server error"), err
	}
	return GatewayResponse(statusCode, string(body))
}

// Error formats a JSON error response.
func Error(statusCode int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(ErrorResponse{Error: message})
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
