package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsettlement "github.com/tenancy/backend/internal/application/settlement"
	"github.com/tenancy/backend/internal/domain/settlement"
)

// flaggedEntryPayload is the wire shape returned by the inspection
// service's comparison endpoint.
type flaggedEntryPayload struct {
	SectionRef      string                    `json:"section_ref"`
	FieldKey        string                    `json:"field_key"`
	ItemRef         string                    `json:"item_ref,omitempty"`
	CheckInEntryID  *uuid.UUID                `json:"check_in_entry_id,omitempty"`
	CheckOutEntryID uuid.UUID                 `json:"check_out_entry_id"`
	Data            settlement.ComparisonData `json:"data"`
	EstimatedCost   string                    `json:"estimated_cost"`
	Depreciation    string                    `json:"depreciation"`
}

type flaggedEntriesResponse struct {
	Entries []flaggedEntryPayload `json:"entries"`
}

// HTTPInspectionClient fetches flagged comparison entries from the
// inspection service. It implements the application layer's
// InspectionService port.
type HTTPInspectionClient struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

func NewHTTPInspectionClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPInspectionClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPInspectionClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (c *HTTPInspectionClient) FetchFlaggedEntries(ctx context.Context, checkInID, checkOutID uuid.UUID) ([]appsettlement.FlaggedEntry, error) {
	endpoint := fmt.Sprintf("%s/internal/inspections/comparison?%s", c.baseURL, url.Values{
		"check_in_id":  {checkInID.String()},
		"check_out_id": {checkOutID.String()},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build inspection request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inspection service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("inspection service returned status %d", resp.StatusCode)
	}

	var payload flaggedEntriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode inspection response: %w", err)
	}

	entries := make([]appsettlement.FlaggedEntry, 0, len(payload.Entries))
	for _, e := range payload.Entries {
		entries = append(entries, appsettlement.FlaggedEntry{
			SectionRef:      e.SectionRef,
			FieldKey:        e.FieldKey,
			ItemRef:         e.ItemRef,
			CheckInEntryID:  e.CheckInEntryID,
			CheckOutEntryID: e.CheckOutEntryID,
			Data:            e.Data,
			EstimatedCost:   e.EstimatedCost,
			Depreciation:    e.Depreciation,
		})
	}

	c.logger.Debug("fetched flagged inspection entries",
		zap.String("check_in_id", checkInID.String()),
		zap.String("check_out_id", checkOutID.String()),
		zap.Int("count", len(entries)))

	return entries, nil
}

// StubInspectionClient returns a small fixed comparison set so report
// generation can be exercised without a running inspection service.
// Enabled with inspection.stub; development only.
type StubInspectionClient struct {
	logger *zap.Logger
}

func NewStubInspectionClient(logger *zap.Logger) *StubInspectionClient {
	return &StubInspectionClient{logger: logger}
}

func (c *StubInspectionClient) FetchFlaggedEntries(ctx context.Context, checkInID, checkOutID uuid.UUID) ([]appsettlement.FlaggedEntry, error) {
	c.logger.Warn("serving stubbed inspection entries",
		zap.String("check_in_id", checkInID.String()),
		zap.String("check_out_id", checkOutID.String()))

	checkInEntry := uuid.New()
	return []appsettlement.FlaggedEntry{
		{
			SectionRef:      "living_room",
			FieldKey:        "walls",
			CheckInEntryID:  &checkInEntry,
			CheckOutEntryID: uuid.New(),
			Data: settlement.ComparisonData{
				CheckInNote:  "freshly painted",
				CheckOutNote: "scuff marks near doorway",
			},
			EstimatedCost: "85.00",
			Depreciation:  "10.00",
		},
		{
			SectionRef:      "bathroom",
			FieldKey:        "sealant",
			CheckOutEntryID: uuid.New(),
			Data: settlement.ComparisonData{
				CheckOutNote: "mould along bath sealant",
			},
			EstimatedCost: "45.00",
			Depreciation:  "0.00",
		},
	}, nil
}
