package schema

import "errors"

// Sentinel errors shared by the engine and its collaborators.
var (
	// ErrMissingData means a required rating record is absent for a participant.
	ErrMissingData = errors.New("missing rating data")

	// ErrInvalidTolerance means a tolerance percentage outside [0, 100].
	ErrInvalidTolerance = errors.New("tolerance percentage must be within [0, 100]")

	// ErrUnmappedConclusion means a conclusion label has no entry in a static table.
	ErrUnmappedConclusion = errors.New("unmapped conclusion")

	// ErrInvalidTemplate means a template failed structural validation.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrUnknownCategory means a category code is not part of the template.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrParticipantNotFound means the rating source has no such participant.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrTemplateNotFound means the rating source has no such template.
	ErrTemplateNotFound = errors.New("template not found")
)
