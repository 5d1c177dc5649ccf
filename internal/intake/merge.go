package intake

import (
	"slices"
	"strings"

	"docintake/internal/model"
)

// Merge folds page extractions, in index order, into one canonical document.
// OrganizationID, SourcePages and CreatedAt are left for the caller.
//
// Title and department take the first non-nil value (independently) and fall back to
// model.UnknownTitle / model.UnknownDepartment. Authors keep first-seen order with exact-match
// de-duplication. Data joins every non-nil page body with a blank line and is trimmed once.
func Merge(pages []model.PageExtraction) (model.Document, error) {
	if len(pages) == 0 {
		return model.Document{}, ErrEmptyBatch
	}

	var (
		title, department *string
		authors           = make([]string, 0)
		data              strings.Builder
	)
	for _, p := range pages {
		if title == nil && p.Title != nil {
			title = p.Title
		}
		if department == nil && p.Department != nil {
			department = p.Department
		}
		for _, a := range p.Authors {
			if !slices.Contains(authors, a) {
				authors = append(authors, a)
			}
		}
		if p.Data != nil {
			data.WriteString(*p.Data)
			data.WriteString("\n\n")
		}
	}

	doc := model.Document{
		Title:      model.UnknownTitle,
		Authors:    authors,
		Department: model.UnknownDepartment,
		Data:       strings.TrimSpace(data.String()),
	}
	if title != nil {
		doc.Title = *title
	}
	if department != nil {
		doc.Department = *department
	}
	return doc, nil
}
