package claims

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

// Row is one record from an uploaded tabular file, keyed by header name.
type Row struct {
	Number int
	Fields map[string]string
}

// fieldAliases maps each canonical claim field to its accepted column names
// in normalizeHeader form, highest priority first. The first non-empty alias
// wins; the chains replace the ad hoc get-or-get-or-get lookups of older
// import scripts. Because headers are folded through normalizeHeader before
// lookup, "claim_id", "claimId" and the export header "Claim ID" all land on
// the same alias.
var fieldAliases = map[string][]string{
	"claimRef":      {"claim_id", "claimid"},
	"claimantName":  {"claimant_name", "claimantname", "name"},
	"location":      {"location", "village", "village_name"},
	"district":      {"district", "district_name"},
	"state":         {"state", "state_name"},
	"area":          {"area", "area_hectares", "land_area"},
	"landType":      {"land_type", "landtype"},
	"status":        {"status"},
	"dateSubmitted": {"date_submitted", "datesubmitted"},
	"familyMembers": {"family_members", "familymembers"},
	"coordinates":   {"coordinates"},
	"notes":         {"notes", "remarks"},
}

// normalizeHeader folds a column name to snake_case: lowercased, parentheses
// dropped, spaces and dashes collapsed to underscores. "Area (hectares)" and
// "area_hectares" resolve identically, so a file produced by Export imports
// without hand-editing its header row.
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("(", "", ")", "", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), "_")
}

// importRecord is the typed intermediate produced by alias resolution,
// validated before any claim is built.
type importRecord struct {
	ClaimRef      string
	ClaimantName  string
	Location      string
	District      string
	State         string
	AreaHectares  float64
	LandType      domain.LandType
	Status        domain.ClaimStatus
	DateSubmitted *time.Time
	FamilyMembers *int
	Coordinates   map[string]any
	Notes         string
}

func normalizeRow(fields map[string]string) (importRecord, error) {
	folded := make(map[string]string, len(fields))
	for name, value := range fields {
		key := normalizeHeader(name)
		if existing := strings.TrimSpace(folded[key]); existing == "" {
			folded[key] = value
		}
	}

	pick := func(canonical string) string {
		for _, alias := range fieldAliases[canonical] {
			if v := strings.TrimSpace(folded[alias]); v != "" {
				return v
			}
		}
		return ""
	}

	record := importRecord{
		ClaimRef:     pick("claimRef"),
		ClaimantName: pick("claimantName"),
		Location:     pick("location"),
		District:     pick("district"),
		State:        pick("state"),
		Notes:        pick("notes"),
	}

	switch {
	case record.ClaimantName == "":
		return importRecord{}, errors.New("claimant name is required")
	case record.Location == "":
		return importRecord{}, errors.New("location is required")
	case record.District == "":
		return importRecord{}, errors.New("district is required")
	case record.State == "":
		return importRecord{}, errors.New("state is required")
	}

	area := pick("area")
	if area == "" {
		area = "0"
	}
	parsed, err := strconv.ParseFloat(area, 64)
	if err != nil || parsed < 0 {
		return importRecord{}, fmt.Errorf("invalid area %q", area)
	}
	record.AreaHectares = parsed

	landType := domain.LandType(strings.ToLower(pick("landType")))
	if landType == "" {
		landType = domain.LandIndividual
	}
	if !domain.ValidLandType(landType) {
		return importRecord{}, fmt.Errorf("invalid land type %q", landType)
	}
	record.LandType = landType

	status := domain.ClaimStatus(strings.ToLower(pick("status")))
	if status == "" {
		status = domain.ClaimPending
	}
	if !domain.ValidClaimStatus(status) {
		return importRecord{}, fmt.Errorf("invalid status %q", status)
	}
	record.Status = status

	if raw := pick("dateSubmitted"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return importRecord{}, fmt.Errorf("invalid date_submitted %q", raw)
		}
		record.DateSubmitted = &t
	}
	if raw := pick("familyMembers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return importRecord{}, fmt.Errorf("invalid family_members %q", raw)
		}
		if n > 0 {
			record.FamilyMembers = &n
		}
	}
	if raw := pick("coordinates"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &record.Coordinates); err != nil {
			return importRecord{}, fmt.Errorf("invalid coordinates: %v", err)
		}
	}
	return record, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// maxReportedRowErrors caps the error detail in import responses.
const maxReportedRowErrors = 50

// ImportRowResult reports one successfully imported row.
type ImportRowResult struct {
	Row     int    `json:"row"`
	Status  string `json:"status"`
	ClaimID string `json:"claimId"`
}

// ImportSummary carries the counts of an import run.
type ImportSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// ImportResult is the partial-success outcome of a bulk import.
type ImportResult struct {
	Summary ImportSummary     `json:"summary"`
	Results []ImportRowResult `json:"results"`
	Errors  []string          `json:"errors"`
}

// Import converts external rows into claims with per-row isolation: a bad row
// is reported and skipped, never aborting its siblings. State and district
// actors may only import rows inside their own jurisdiction.
func (s *Service) Import(ctx context.Context, rows []Row) (ImportResult, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return ImportResult{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	scope, err := s.scopes.ScopeFor(ctx, actor)
	if err != nil {
		return ImportResult{}, err
	}

	now := requestcontext.Now(ctx)
	result := ImportResult{Results: []ImportRowResult{}, Errors: []string{}}
	result.Summary.Total = len(rows)

	reportError := func(rowNum int, msg string) {
		result.Summary.Failed++
		if len(result.Errors) < maxReportedRowErrors {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, msg))
		}
		s.countBulkRow("import", "error")
	}

	for _, row := range rows {
		record, err := normalizeRow(row.Fields)
		if err != nil {
			reportError(row.Number, err.Error())
			continue
		}
		if !scope.AllowsJurisdiction(record.State, record.District) {
			reportError(row.Number, fmt.Sprintf("cannot import claim for %s/%s - outside jurisdiction", record.State, record.District))
			continue
		}

		claimRef := record.ClaimRef
		if claimRef == "" {
			claimRef = s.newClaimRef(ctx, record.State)
		}
		submitted := now
		if record.DateSubmitted != nil {
			submitted = *record.DateSubmitted
		}
		claim := domain.Claim{
			ID:            uuid.NewString(),
			ClaimRef:      claimRef,
			ClaimantName:  record.ClaimantName,
			Location:      record.Location,
			District:      record.District,
			State:         record.State,
			AreaHectares:  record.AreaHectares,
			LandType:      record.LandType,
			Status:        record.Status,
			DateSubmitted: submitted,
			FamilyMembers: record.FamilyMembers,
			Coordinates:   record.Coordinates,
			Notes:         record.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.store.Create(ctx, claim); err != nil {
			reportError(row.Number, "storage error")
			continue
		}

		s.audit.Record(ctx, actor.ID, "bulk_import_claim", "claim", claim.ID, map[string]domain.FieldChange{
			"source": {New: "csv"},
		})
		result.Summary.Successful++
		result.Results = append(result.Results, ImportRowResult{Row: row.Number, Status: "success", ClaimID: claim.ID})
		s.countBulkRow("import", "success")
		if s.metrics != nil {
			s.metrics.ClaimsCreated.Inc()
		}
	}
	return result, nil
}

// Export returns the actor's jurisdiction-filtered claims and audits the
// export with its row count.
func (s *Service) Export(ctx context.Context) ([]domain.Claim, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	claims, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.ID, "export_claims", "claims", "bulk", map[string]domain.FieldChange{
		"exported_count": {New: len(claims)},
	})
	return claims, nil
}

// exportHeader is the fixed column layout consumers depend on.
var exportHeader = []string{
	"ID", "Claim ID", "Claimant Name", "Location", "District", "State",
	"Area (hectares)", "Land Type", "Status", "Date Submitted",
	"Date Processed", "Family Members", "Notes",
}

// WriteCSV serializes claims in the fixed export layout. encoding/csv quotes
// and doubles embedded quotes per RFC 4180.
func WriteCSV(w io.Writer, claims []domain.Claim) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, claim := range claims {
		familyMembers := ""
		if claim.FamilyMembers != nil {
			familyMembers = strconv.Itoa(*claim.FamilyMembers)
		}
		dateProcessed := ""
		if claim.DateProcessed != nil {
			dateProcessed = claim.DateProcessed.Format("2006-01-02")
		}
		row := []string{
			claim.ID,
			claim.ClaimRef,
			claim.ClaimantName,
			claim.Location,
			claim.District,
			claim.State,
			strconv.FormatFloat(claim.AreaHectares, 'f', -1, 64),
			string(claim.LandType),
			string(claim.Status),
			claim.DateSubmitted.Format("2006-01-02"),
			dateProcessed,
			familyMembers,
			claim.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRows parses an uploaded CSV into header-keyed rows. Row numbers start
// at 1 for the first data row, matching what operators see in a spreadsheet.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.New(apperrors.CodeValidation, "empty csv file")
		}
		return nil, apperrors.Wrap(apperrors.CodeValidation, "invalid csv file", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for number := 1; ; number++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, fmt.Sprintf("invalid csv row %d", number), err)
		}
		fields := make(map[string]string, len(header))
		for i, value := range record {
			if i < len(header) {
				fields[header[i]] = value
			}
		}
		rows = append(rows, Row{Number: number, Fields: fields})
	}
	return rows, nil
}
