package handlers

// Aliases exposing unexported DTO types to the external handlers_test package.
type (
	TodoDTO         = todoDTO
	SubscriptionDTO = subscriptionDTO
	TokenResponse   = tokenResponse
)
