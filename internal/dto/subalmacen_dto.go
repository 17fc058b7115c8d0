package dto

type SubalmacenRequest struct {
	Nombre      string `json:"nombre"      validate:"required,min=2,max=100"`
	Direccion   string `json:"direccion"   validate:"max=255"`
	Descripcion string `json:"descripcion" validate:"max=500"`
}

type SubalmacenResponse struct {
	ID          uint   `json:"id"`
	Nombre      string `json:"nombre"`
	Direccion   string `json:"direccion"`
	Descripcion string `json:"descripcion"`
	EsPrincipal bool   `json:"es_principal"`
}
