package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkActionRequest ids sobre los que aplicar una acción masiva.
type BulkActionRequest struct {
	IDs []string `json:"ids"`
}

// BulkActionResult resultado por registro de una acción masiva. Las acciones
// masivas pasan registro a registro por las mismas guardas de estado que la
// acción individual; aquí se reporta qué pasó con cada uno.
type BulkActionResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkActionResponse resumen de una acción masiva.
type BulkActionResponse struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Results   []BulkActionResult `json:"results"`
}
