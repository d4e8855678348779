package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/accordmanpower/cmsapi/types"
	"go.uber.org/zap"
)

const (
	msgInquiryNotFound = "Inquiry not found"

	// EventInquiryCreated is the type attribute of the broker message sent
	// for every new inquiry.
	EventInquiryCreated = "inquiry.created"

	publishTimeout = 5 * time.Second
)

// InquiryCSVHeader is the column order of the inquiry export.
var InquiryCSVHeader = []string{"Name", "Email", "Company", "Service", "Status", "Message", "Date"}

// InquiryRepository defines persistence operations for inquiries.
type InquiryRepository interface {
	List(ctx context.Context) ([]types.Inquiry, error)
	GetByID(ctx context.Context, id int) (types.Inquiry, error)
	Create(ctx context.Context, inquiry types.Inquiry) (types.Inquiry, error)
	UpdateStatus(ctx context.Context, id int, status types.InquiryStatus) (types.Inquiry, error)
	Count(ctx context.Context) (int, error)
}

// EventPublisher delivers a payload to a named broker channel.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// InquiryEvent is the broker payload announcing a new lead.
type InquiryEvent struct {
	Type       string        `json:"type"`
	Inquiry    types.Inquiry `json:"inquiry"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// InquiryService encapsulates inquiry use-cases.
type InquiryService struct {
	repo      InquiryRepository
	publisher EventPublisher
	channel   string
	logger    *zap.Logger
}

func NewInquiryService(repo InquiryRepository, logger *zap.Logger) *InquiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryService{repo: repo, logger: logger}
}

// WithPublisher enables inquiry.created events on channel.
func (s *InquiryService) WithPublisher(publisher EventPublisher, channel string) *InquiryService {
	s.publisher = publisher
	s.channel = channel
	return s
}

// Submit stores a public inquiry with status "new". The created event is
// best effort: a broker failure is logged and the inquiry still stands.
func (s *InquiryService) Submit(ctx context.Context, in types.InquiryInput) (types.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := Validate(in); err != nil {
		return types.Inquiry{}, err
	}

	inquiry := types.Inquiry{
		Name:    in.Name,
		Email:   in.Email,
		Company: in.Company,
		Service: in.Service,
		Message: in.Message,
		Status:  types.InquiryNew,
		Source:  types.DefaultInquirySource,
	}
	if in.Source != nil && strings.TrimSpace(*in.Source) != "" {
		inquiry.Source = strings.TrimSpace(*in.Source)
	}

	created, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		return types.Inquiry{}, storeErr(err, msgInquiryNotFound, "")
	}

	s.publishCreated(ctx, created)
	return created, nil
}

func (s *InquiryService) publishCreated(ctx context.Context, inquiry types.Inquiry) {
	if s.publisher == nil || s.channel == "" {
		return
	}

	data, err := json.Marshal(InquiryEvent{
		Type:       EventInquiryCreated,
		Inquiry:    inquiry,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("encode inquiry event", zap.Int("inquiry_id", inquiry.ID), zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	attrs := map[string]string{
		"type":       EventInquiryCreated,
		"inquiry_id": strconv.Itoa(inquiry.ID),
	}
	if _, err := s.publisher.Publish(pubCtx, s.channel, data, attrs); err != nil {
		s.logger.Warn("publish inquiry event",
			zap.Int("inquiry_id", inquiry.ID),
			zap.String("channel", s.channel),
			zap.Error(err),
		)
	}
}

func (s *InquiryService) List(ctx context.Context) ([]types.Inquiry, error) {
	inquiries, err := s.repo.List(ctx)
	return inquiries, storeErr(err, msgInquiryNotFound, "")
}

func (s *InquiryService) Get(ctx context.Context, id int) (types.Inquiry, error) {
	inquiry, err := s.repo.GetByID(ctx, id)
	return inquiry, storeErr(err, msgInquiryNotFound, "")
}

// UpdateStatus moves an inquiry to any of the known statuses.
func (s *InquiryService) UpdateStatus(ctx context.Context, id int, in types.InquiryStatusInput) (types.Inquiry, error) {
	if err := Validate(in); err != nil {
		return types.Inquiry{}, err
	}
	inquiry, err := s.repo.UpdateStatus(ctx, id, in.Status)
	return inquiry, storeErr(err, msgInquiryNotFound, "")
}

// ExportCSV writes every inquiry, newest first, as CSV.
func (s *InquiryService) ExportCSV(ctx context.Context, w io.Writer) error {
	inquiries, err := s.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(InquiryCSVHeader); err != nil {
		return err
	}
	for _, inquiry := range inquiries {
		record := []string{
			csvCell(inquiry.Name),
			csvCell(inquiry.Email),
			csvCell(deref(inquiry.Company)),
			csvCell(deref(inquiry.Service)),
			string(inquiry.Status),
			csvCell(deref(inquiry.Message)),
			inquiry.CreatedAt.UTC().Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvCell neutralises values a spreadsheet would evaluate as a formula.
func csvCell(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
