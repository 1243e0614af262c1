package tui

import (
	"github.com/evgengiga/dashbord/internal/model"
)

// fetchResultMsg carries the outcome of one dashboard fetch.
type fetchResultMsg struct {
	err     error
	payload *model.Payload
	filters model.Filters
	seq     uint64
}

// payloadChangedMsg is sent when the watched payload file changes.
type payloadChangedMsg struct{}

// watchClosedMsg is sent when the change feed ends.
type watchClosedMsg struct{}
