// Package textbuild renders candidate and job records into the plain-text
// blocks fed to the analysis and embedding models. Builders are pure:
// identical inputs always produce identical text, with fields emitted in a
// fixed order and empty fields omitted.
package textbuild

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/match-engine/internal/db"
)

// CandidateText builds the candidate block from profile fields, any parsed
// resume data, and the extracted resume text.
func CandidateText(c *db.Candidate, resumeText string) string {
	var sb strings.Builder

	writeField(&sb, "Name", strings.TrimSpace(c.FirstName+" "+c.LastName))
	writeField(&sb, "Email", c.Email)
	writeField(&sb, "Current Title", c.CurrentTitle)
	writeField(&sb, "Current Company", c.CurrentCompany)
	writeField(&sb, "Location", c.Location)

	if len(c.Tags) > 0 {
		writeField(&sb, "Tags", strings.Join(c.Tags, ", "))
	}
	writeField(&sb, "Notes", c.Notes)

	if len(c.ResumeParsedData) > 0 {
		sb.WriteString("Parsed Resume Fields:\n")
		// Map iteration order is random; sort keys for determinism.
		keys := make([]string, 0, len(c.ResumeParsedData))
		for k := range c.ResumeParsedData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := strings.TrimSpace(c.ResumeParsedData[k]); v != "" {
				fmt.Fprintf(&sb, "  %s: %s\n", k, v)
			}
		}
	}

	if resumeText != "" {
		sb.WriteString("Resume:\n")
		sb.WriteString(resumeText)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// JobText builds the job block from posting fields.
func JobText(j *db.Job) string {
	var sb strings.Builder

	writeField(&sb, "Title", j.Title)
	writeField(&sb, "Department", j.Department)
	writeField(&sb, "Location", j.Location)
	writeField(&sb, "Employment Type", j.EmploymentType)

	if j.Description != "" {
		sb.WriteString("Description:\n")
		sb.WriteString(j.Description)
		sb.WriteString("\n")
	}
	if j.Requirements != "" {
		sb.WriteString("Requirements:\n")
		sb.WriteString(j.Requirements)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func writeField(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}
