package importer

import (
	"fmt"
	"io"
)

// Service dispatches an upload to the importer of its format.
type Service struct {
	importers map[Format]Importer
}

func NewService(importers map[Format]Importer) *Service {
	return &Service{importers: importers}
}

func (s *Service) Import(format Format, r io.Reader) ([]Row, error) {
	imp, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return imp.Parse(r)
}
