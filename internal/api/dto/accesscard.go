package dto

import (
	"github.com/deskhive/deskhive/internal/domain/accesscard"
)

type AccessCardResponse struct {
	*accesscard.AccessCard
}
