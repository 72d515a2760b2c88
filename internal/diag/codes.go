package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Правила генерации (contract)
	PlugInfo                    Code = 1000
	PlugInvalidImplName         Code = 1001
	PlugDuplicateReceiverMarker Code = 1002

	// Хост-граница
	HostInfo      Code = 2000
	HostBadItem   Code = 2001 // item id outside the tree or of a wrong kind
	HostGenFailed Code = 2002 // generation aborted by an internal error
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	PlugInfo:                    "Plugin information",
	PlugInvalidImplName:         "Invalid impl name",
	PlugDuplicateReceiverMarker: "Duplicate receiver marker parameter",
	HostInfo:                    "Host information",
	HostBadItem:                 "Invalid item in request",
	HostGenFailed:               "Code generation failed",
}

// ID returns the stable short form, e.g. PLG1001.
func (c Code) ID() string {
	switch {
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("PLG%04d", uint16(c))
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("HST%04d", uint16(c))
	}
	return fmt.Sprintf("E%04d", uint16(c))
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
