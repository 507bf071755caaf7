package parser

import "ftr/internal/domain"

// Parser turns executor results into failure records
type Parser interface {
	Describe(output string, err error) string
	ParseFailure(result domain.JobResult) domain.TestFailure
}
