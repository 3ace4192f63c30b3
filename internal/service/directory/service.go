// Package directory back-fills employee external-id links from the
// time-clock provider's directory.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punchsource"
)

type Service struct {
	source       punchsource.Source
	employeeRepo employee.Repository
	auditRepo    audit.Repository
}

func NewService(source punchsource.Source, employeeRepo employee.Repository, auditRepo audit.Repository) *Service {
	return &Service{
		source:       source,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
	}
}

// Run links unlinked internal employees to directory entries by
// case-insensitive exact name. Already-linked employees are left alone.
func (s *Service) Run(ctx context.Context) error {
	external, err := s.source.FetchEmployees(ctx)
	if err != nil {
		return fmt.Errorf("fetch employee directory: %w", err)
	}

	internal, err := s.employeeRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}

	byName := make(map[string]*employee.Employee, len(internal))
	for i := range internal {
		byName[strings.ToLower(strings.TrimSpace(internal[i].FullName))] = &internal[i]
	}

	linked := 0
	for _, ext := range external {
		emp, ok := byName[strings.ToLower(strings.TrimSpace(ext.Name))]
		if !ok || emp.ExternalID != nil {
			continue
		}

		if err := s.employeeRepo.LinkExternalID(ctx, emp.ID, ext.ID); err != nil {
			slog.Error("Directory: failed to link external id", "employee_id", emp.ID, "error", err)
			continue
		}
		if auditErr := s.auditRepo.Append(ctx, audit.ActionEmployeeLinked, "employee", &emp.ID, map[string]interface{}{
			"external_id": ext.ID,
			"source":      "directory_sync",
		}); auditErr != nil {
			slog.Error("failed to audit external id link", "error", auditErr)
		}
		linked++
	}

	slog.Info("Directory: sync completed", "directory_size", len(external), "linked", linked)
	return nil
}
