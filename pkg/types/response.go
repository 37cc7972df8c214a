package types

// Outcome is the envelope every catalog endpoint returns. Callers inspect
// the success flag rather than the transport status code.
type Outcome struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Product   any    `json:"product,omitempty"`
	Products  any    `json:"products,omitempty"`
	Details   any    `json:"details,omitempty"`
}
