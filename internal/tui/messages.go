package tui

import (
	"github.com/Veraticus/pinpoint/internal/model"
	"github.com/Veraticus/pinpoint/internal/service"
)

type verifiedMsg struct {
	err    error
	record model.VerificationRecord
}

type historyLoadedMsg struct {
	err     error
	records []service.StoredRecord
}
