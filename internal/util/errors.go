package util

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrSkillNotFound     = errors.New("skill not found")
	ErrRunNotFound       = errors.New("challenge run not found")
	ErrRunCompleted      = errors.New("challenge run already completed")
	ErrWrongLevel        = errors.New("level out of sequence")
	ErrGuildNotFound     = errors.New("guild not found")
	ErrGuildFull         = errors.New("guild is full")
	ErrAlreadyMember     = errors.New("already a guild member")
	ErrNotGuildMember    = errors.New("not a guild member")
	ErrAdvisorDown       = errors.New("advisor unavailable")
)
