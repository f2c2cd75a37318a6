package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	// Current existencia actual en errores de stock insuficiente.
	Current *int `json:"current,omitempty"`
}

// ImportCounts contadores de una importación; también viajan en el error 422.
type ImportCounts struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Malformed  int `json:"malformed"`
}
