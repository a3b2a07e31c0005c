package packets

// RESPONSES FOR /api/admin/*

// CreatedResponse is returned with 201 alongside a Location header.
type CreatedResponse struct {
	ID int `json:"id"`
}
