package outlook

import (
	"fmt"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// HRESULTs returned when the Outlook.Application class is unknown.
const (
	hresultClassString     uint32 = 0x800401F3 // CO_E_CLASSSTRING
	hresultClassNotReg     uint32 = 0x80040154 // REGDB_E_CLASSNOTREG
	hresultServerExecFault uint32 = 0x80080005 // CO_E_SERVER_EXEC_FAILURE
)

// createError classifies a failure to instantiate Outlook.Application.
func createError(code uint32, err error) error {
	switch code {
	case hresultClassString, hresultClassNotReg:
		return fmt.Errorf("%w: %v", domain.ErrProviderNotInstalled, err)
	case hresultServerExecFault:
		return domain.NewProviderError(Name, "start Outlook", err)
	default:
		return domain.NewProviderError(Name, "create Outlook.Application", err)
	}
}
