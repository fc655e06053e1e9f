package formats

import (
	"io"

	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

type Format interface {
	ParseFile(io.Reader) error
	Import(*ticketoffice.Office) error
}
