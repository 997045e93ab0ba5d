package tasks

import "errors"

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrIncompleteTaskDeletion = errors.New("cannot delete incomplete task")
)
