package customers

// CustomerInput is the payload accepted on create. Optional fields are
// pointers so that absence survives decoding.
type CustomerInput struct {
	TipoDocumento   string        `json:"tipo_documento" validate:"required,oneof=DNI RUC CE"`
	NumeroDocumento string        `json:"numero_documento" validate:"required,documento"`
	RazonSocial     string        `json:"razon_social" validate:"required,max=200"`
	NombreComercial *string       `json:"nombre_comercial" validate:"omitempty,max=200"`
	Telefono        string        `json:"telefono" validate:"required,telefono"`
	Email           *string       `json:"email" validate:"omitempty,email"`
	Direccion       *string       `json:"direccion" validate:"omitempty,max=255"`
	Zona            *string       `json:"zona" validate:"omitempty,oneof=norte sur este oeste centro"`
	TipoCliente     string        `json:"tipo_cliente" validate:"required,oneof=persona_natural persona_juridica empresa"`
	Preferencias    *Preferencias `json:"preferencias" validate:"omitempty"`
	Latitud         *float64      `json:"latitud" validate:"omitempty,gte=-90,lte=90"`
	Longitud        *float64      `json:"longitud" validate:"omitempty,gte=-180,lte=180"`
	Estado          string        `json:"estado" validate:"omitempty,oneof=activo inactivo eliminado"`
}

// CustomerUpdate is the partial payload accepted on update. Only non-nil
// fields are applied; each applied field that actually changes value yields
// one history entry.
type CustomerUpdate struct {
	TipoDocumento   *string       `json:"tipo_documento" validate:"omitempty,oneof=DNI RUC CE"`
	NumeroDocumento *string       `json:"numero_documento" validate:"omitempty,documento"`
	RazonSocial     *string       `json:"razon_social" validate:"omitempty,max=200"`
	NombreComercial *string       `json:"nombre_comercial" validate:"omitempty,max=200"`
	Telefono        *string       `json:"telefono" validate:"omitempty,telefono"`
	Email           *string       `json:"email" validate:"omitempty,email"`
	Direccion       *string       `json:"direccion" validate:"omitempty,max=255"`
	Zona            *string       `json:"zona" validate:"omitempty,oneof=norte sur este oeste centro"`
	TipoCliente     *string       `json:"tipo_cliente" validate:"omitempty,oneof=persona_natural persona_juridica empresa"`
	Preferencias    *Preferencias `json:"preferencias" validate:"omitempty"`
	Latitud         *float64      `json:"latitud" validate:"omitempty,gte=-90,lte=90"`
	Longitud        *float64      `json:"longitud" validate:"omitempty,gte=-180,lte=180"`
}

// ChangeStatusInput is the payload for the status transition endpoint.
type ChangeStatusInput struct {
	Estado string `json:"estado"`
}
