package models

import "errors"

// Error kinds shared by repositories, services and handlers. Callers wrap
// them with fmt.Errorf("...: %w", ErrX) and match with errors.Is.
var (
	ErrNotFound            = errors.New("не найдено")
	ErrDuplicateName       = errors.New("название уже занято")
	ErrValidation          = errors.New("некорректные данные")
	ErrForbidden           = errors.New("доступ запрещен")
	ErrDuplicateInvitation = errors.New("приглашение уже отправлено")
	ErrAlreadyMember       = errors.New("пользователь уже состоит в беседе")
	ErrDuplicateUsername   = errors.New("имя пользователя уже занято")
	ErrDuplicateEmail      = errors.New("адрес электронной почты уже занят")
	ErrInvalidCredentials  = errors.New("неправильные имя пользователя или пароль")
)
