package notifier

import "errors"

var (
	// ErrDispatchFailure возвращается, когда уведомление не удалось доставить ни по одному каналу
	ErrDispatchFailure = errors.New("notification dispatch failed")

	// ErrNoChannel возвращается, когда у студента нет ни одного доступного канала
	ErrNoChannel = errors.New("no delivery channel for student")
)
