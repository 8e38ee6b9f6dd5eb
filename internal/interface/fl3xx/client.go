package fl3xx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/utils"
)

// Client fetches the current flight roster from the FL3XX external API and
// implements repository.SnapshotSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new FL3XX roster client. The HTTP client is expected to
// carry authentication (see infrastructure/oauth).
func NewClient(baseURL string, httpClient *http.Client, logger logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// fl3xxFlight mirrors the fields of one FL3XX flight payload that feed the
// roster row. Timestamps stay raw until parsed: the API has been seen sending
// both RFC3339 strings and epoch values.
type fl3xxFlight struct {
	BookingIdentifier     string          `json:"bookingIdentifier"`
	BookingReference      string          `json:"bookingReference"`
	AirportFrom           string          `json:"airportFrom"`
	AirportTo             string          `json:"airportTo"`
	BlockOffEstUTC        json.RawMessage `json:"blockOffEstUTC"`
	BlockOnEstUTC         json.RawMessage `json:"blockOnEstUTC"`
	TakeOffUTC            json.RawMessage `json:"takeOffUTC"`
	LandingUTC            json.RawMessage `json:"landingUTC"`
	PicName               string          `json:"picName"`
	SicName               string          `json:"sicName"`
	AccountName           string          `json:"accountName"`
	AccountReference      string          `json:"accountReference"`
	RegistrationNumber    string          `json:"registrationNumber"`
	RequestedAircraftType string          `json:"requestedAircraftType"`
	AircraftCategory      string          `json:"aircraftCategory"`
	Workflow              string          `json:"workflow"`
	WorkflowCustomName    string          `json:"workflowCustomName"`
	FlightStatus          string          `json:"flightStatus"`
	Status                string          `json:"status"`
}

// FetchSnapshot retrieves the roster for today through the day after
// tomorrow. The API treats the "to" date as exclusive, so it is advanced by
// two days to include tomorrow's departures.
func (c *Client) FetchSnapshot(ctx context.Context) (*entity.ScheduleSnapshot, error) {
	now := time.Now().UTC()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, 2).Format("2006-01-02")

	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	query.Set("timeZone", "UTC")
	query.Set("value", "ALL")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", repository.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}

	flights, err := normalizePayload(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}

	sum := sha256.Sum256(body)
	snapshot := &entity.ScheduleSnapshot{
		Source:    "fl3xx_api",
		FetchedAt: now,
		Hash:      hex.EncodeToString(sum[:]),
		Legs:      make([]entity.FlightLeg, 0, len(flights)),
	}
	for _, flight := range flights {
		snapshot.Legs = append(snapshot.Legs, buildLeg(flight))
	}

	c.logger.Debug("Fetched roster snapshot",
		"flights", len(snapshot.Legs), "from", from, "to", to, "hash", snapshot.Hash)
	return snapshot, nil
}

// normalizePayload accepts either a bare JSON array of flights or an object
// wrapping the array under "items".
func normalizePayload(body []byte) ([]fl3xxFlight, error) {
	var flights []fl3xxFlight
	if err := json.Unmarshal(body, &flights); err == nil {
		return flights, nil
	}

	var wrapped struct {
		Items []fl3xxFlight `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items, nil
	}
	return nil, fmt.Errorf("unsupported roster payload structure")
}

func buildLeg(flight fl3xxFlight) entity.FlightLeg {
	booking := firstNonEmpty(flight.BookingIdentifier, flight.BookingReference)
	offBlock := utils.ParseProviderTimestamp(flight.BlockOffEstUTC)
	onBlock := utils.ParseProviderTimestamp(flight.BlockOnEstUTC)

	return entity.FlightLeg{
		Booking:       booking,
		From:          flight.AirportFrom,
		To:            flight.AirportTo,
		OffBlockSched: offBlock,
		OnBlockSched:  onBlock,
		ActualTakeoff: utils.ParseProviderTimestamp(flight.TakeOffUTC),
		ActualLanding: utils.ParseProviderTimestamp(flight.LandingUTC),
		FlightTimeEst: flightTime(offBlock, onBlock),
		PIC:           flight.PicName,
		SIC:           flight.SicName,
		Account:       firstNonEmpty(flight.AccountName, flight.AccountReference),
		Aircraft:      firstNonEmpty(flight.RegistrationNumber, flight.RequestedAircraftType),
		AircraftType:  flight.AircraftCategory,
		Workflow:      firstNonEmpty(flight.WorkflowCustomName, flight.Workflow),
		Status:        firstNonEmpty(flight.FlightStatus, flight.Status),
	}
}

// flightTime renders the scheduled block time as HH:MM, or "" when either end
// is missing or the range is negative.
func flightTime(offBlock, onBlock *time.Time) string {
	if offBlock == nil || onBlock == nil {
		return ""
	}
	minutes := int(onBlock.Sub(*offBlock).Round(time.Minute).Minutes())
	if minutes < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
