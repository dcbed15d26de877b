package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente en el lote")

	// ErrSummarizationUnavailable indica que el servicio externo de resumen
	// falló (timeout, cuota, credencial, respuesta malformada). Nunca es
	// fatal: el feed de alertas calculado localmente sigue siendo válido.
	ErrSummarizationUnavailable = errors.New("resumen no disponible")

	// ErrNotificationUnavailable indica que no hay canal de notificación
	// configurado (SMTP deshabilitado).
	ErrNotificationUnavailable = errors.New("notificación no disponible")
)
