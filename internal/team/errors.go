package team

import "errors"

var (
	ErrTeamFull      = errors.New("team is full")
	ErrNoSuchTeam    = errors.New("no such team")
	ErrDuplicateTeam = errors.New("team id is already in use")
	ErrReservedTeam  = errors.New("team id is reserved")
)
