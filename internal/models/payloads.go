package models

// These structs define the JSON payloads for the HTTP API.

// NewCustomerRequest is the body for creating a customer profile.
type NewCustomerRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

// SaveGraphicsRequest replaces an order's graphics list. OrderID pins a
// specific order; when empty the customer's existing (or lazily created)
// order is used.
type SaveGraphicsRequest struct {
	Graphics []Graphic `json:"graphics"`
	OrderID  string    `json:"orderId,omitempty"`
}

// SaveStepsRequest replaces an order's production checklist.
type SaveStepsRequest struct {
	ProductionSteps []ProductionStep `json:"productionSteps"`
	OrderID         string           `json:"orderId,omitempty"`
}

// DeleteGraphicRequest removes one graphic: the storage object named by Path
// is deleted (absence counts as success) and Graphics becomes the order's new
// list.
type DeleteGraphicRequest struct {
	Path     string    `json:"path,omitempty"`
	Graphics []Graphic `json:"graphics"`
	OrderID  string    `json:"orderId,omitempty"`
}

// UploadGraphicResponse is returned after a successful file upload.
type UploadGraphicResponse struct {
	Graphic Graphic `json:"graphic"`
}

// CitiesResponse carries the cached city-name list.
type CitiesResponse struct {
	Cities []string `json:"cities"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
