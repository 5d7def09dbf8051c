package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

// PolicyService is the read side of the policy store plus the CSV bulk
// upload. Rule CRUD for the admin UI goes straight through the repos.
type PolicyService interface {
	LoadSnapshot(dbc dbctx.Context) (PolicySnapshot, error)
	ActiveExceptionFor(dbc dbctx.Context, cylinderNo string) (*types.EndUserException, error)
	BestDefaultFor(dbc dbctx.Context, gasName string, capacity float64, valveCode, cylCode string) (*types.EndUserDefault, error)
	ImportExceptionsCSV(dbc dbctx.Context, r io.Reader) (CSVImportResult, error)
}

type CSVImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type policyService struct {
	defaults   repos.EndUserDefaultRepo
	exceptions repos.EndUserExceptionRepo
	valves     repos.ValveGroupRepo
	log        *logger.Logger
}

func NewPolicyService(
	defaults repos.EndUserDefaultRepo,
	exceptions repos.EndUserExceptionRepo,
	valves repos.ValveGroupRepo,
	baseLog *logger.Logger,
) PolicyService {
	return &policyService{
		defaults:   defaults,
		exceptions: exceptions,
		valves:     valves,
		log:        baseLog.With("service", "PolicyService"),
	}
}

func (s *policyService) LoadSnapshot(dbc dbctx.Context) (PolicySnapshot, error) {
	exceptions, err := s.exceptions.ListActive(dbc)
	if err != nil {
		return PolicySnapshot{}, fmt.Errorf("load active exceptions: %w", err)
	}
	defaults, err := s.defaults.ListActive(dbc)
	if err != nil {
		return PolicySnapshot{}, fmt.Errorf("load active default rules: %w", err)
	}
	valveGroups, err := s.valves.ActiveMappings(dbc)
	if err != nil {
		return PolicySnapshot{}, fmt.Errorf("load valve group mappings: %w", err)
	}
	exc := make(map[string]string, len(exceptions))
	for _, e := range exceptions {
		exc[strings.TrimSpace(e.CylinderNo)] = e.EndUser
	}
	return PolicySnapshot{
		Exceptions:  exc,
		Defaults:    defaults,
		ValveGroups: valveGroups,
	}, nil
}

func (s *policyService) ActiveExceptionFor(dbc dbctx.Context, cylinderNo string) (*types.EndUserException, error) {
	return s.exceptions.GetActiveByCylinderNo(dbc, cylinderNo)
}

func (s *policyService) BestDefaultFor(dbc dbctx.Context, gasName string, capacity float64, valveCode, cylCode string) (*types.EndUserDefault, error) {
	rules, err := s.defaults.ListActiveByGas(dbc, gasName)
	if err != nil {
		return nil, err
	}
	return BestMatchingDefault(rules, gasName, capacity, valveCode, cylCode), nil
}

// ImportExceptionsCSV reads rows of {cylinder_no, end_user, reason}. A header
// row is accepted and skipped. Bad rows are counted and reported, not fatal.
func (s *policyService) ImportExceptionsCSV(dbc dbctx.Context, r io.Reader) (CSVImportResult, error) {
	var result CSVImportResult
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if len(record) < 2 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: expected cylinder_no,end_user[,reason]", line))
			continue
		}
		cylinderNo := strings.TrimSpace(record[0])
		endUser := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(cylinderNo, "cylinder_no") {
			continue
		}
		if cylinderNo == "" || endUser == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: empty cylinder_no or end_user", line))
			continue
		}
		reason := ""
		if len(record) > 2 {
			reason = strings.TrimSpace(record[2])
		}
		row := &types.EndUserException{
			CylinderNo: cylinderNo,
			EndUser:    endUser,
			Reason:     reason,
			IsActive:   true,
		}
		if err := s.exceptions.UpsertByCylinderNo(dbc, row); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d (%s): %v", line, cylinderNo, err))
			s.log.Warn("exception upsert failed", "cylinder_no", cylinderNo, "error", err)
			continue
		}
		result.Imported++
	}
	s.log.Info("exception CSV import finished", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}
