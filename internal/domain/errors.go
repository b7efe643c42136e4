package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation          = errors.New("entrada inválida")
	ErrDuplicateSerial     = errors.New("número de serie duplicado")
	ErrReferentialConflict = errors.New("el recurso tiene dependientes")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrAlreadyApplied      = errors.New("la movimentação ya fue aplicada al stock")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUnrecognizedFormat  = errors.New("formato de planilla no reconocido")
	ErrEmptyResult         = errors.New("la consulta no devolvió registros")
	ErrGateway             = errors.New("fallo de persistencia")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)

// ValidationError indica el campo que no pasó la validación.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid construye un *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateSerialError lista los números de serie en conflicto.
type DuplicateSerialError struct {
	Serials []string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateSerial, strings.Join(e.Serials, ", "))
}

func (e *DuplicateSerialError) Is(target error) bool { return target == ErrDuplicateSerial }

// InsufficientStockError lleva la cantidad disponible para mostrarla al usuario.
type InsufficientStockError struct {
	EquipmentID int64
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: solicitado %d, disponible %d", ErrInsufficientStock, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ReferentialConflictError describe qué dependientes bloquean la operación.
type ReferentialConflictError struct {
	Resource   string
	Dependents string
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("%s: %s tiene %s vinculados", ErrReferentialConflict, e.Resource, e.Dependents)
}

func (e *ReferentialConflictError) Is(target error) bool { return target == ErrReferentialConflict }

// GatewayError envuelve cualquier fallo inesperado de la capa de persistencia.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGateway, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// Gateway envuelve err en un *GatewayError salvo que ya sea un error de dominio.
func Gateway(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}

// IsDomainError reporta si err pertenece a la taxonomía de dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrDuplicateSerial, ErrReferentialConflict, ErrInsufficientStock, ErrAlreadyApplied,
		ErrNotFound, ErrUnrecognizedFormat, ErrEmptyResult, ErrGateway, ErrUnauthorized, ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
