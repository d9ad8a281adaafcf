package update_field

// UpdateFieldRequest изменение одного поля формы.
// Значение передаётся строкой, как его вводит пользователь.
type UpdateFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
