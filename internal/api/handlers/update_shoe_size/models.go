package update_shoe_size

// UpdateShoeSizeRequest новый размер обуви; допустима пустая строка или два символа
type UpdateShoeSizeRequest struct {
	Size string `json:"size"`
}
