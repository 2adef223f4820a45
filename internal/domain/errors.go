package domain

import "errors"

var (
	// ErrNotFound: el participante no existe (borrado o id inválido). El caller vuelve a seleccionar.
	ErrNotFound = errors.New("participant not found")
	// ErrEmptyRoster: no hay participantes para el sorteo.
	ErrEmptyRoster = errors.New("no participants")
	// ErrStoreUnavailable: la persistencia no responde. No se reintenta en el core.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidInput     = errors.New("invalid input")
)
