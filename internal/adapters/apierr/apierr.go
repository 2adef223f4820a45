// Package apierr traduce errores del dominio a status + mensaje para los transportes (HTTP y Lambda).
package apierr

import (
	"errors"
	"net/http"

	"github.com/jose-valero/spinboard/internal/domain"
)

// Status devuelve el código HTTP y un mensaje apto para mostrar al usuario.
// Los errores "recuperables" dicen qué hacer (volver a girar, agregar participantes).
func Status(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, domain.ErrEmptyRoster):
		return http.StatusNotFound, "no participants yet, add some employees first"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "participant not found, try spinning again"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable, try again later"
	}
	return http.StatusInternalServerError, "internal error"
}
