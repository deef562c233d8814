package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/transport"
)

// Notices appended after a sample-data population attempt.
const (
	SampleDataSuccessNotice = "✅ Sample data populated successfully! You now have 3 orders and 3 invoices. Try asking:\n\n" +
		"• \"Where is my order #8829?\"\n" +
		"• \"Show me invoice INV-2024-001\"\n" +
		"• \"Track order #7742\""
	SampleDataFailureNotice = "❌ Failed to populate sample data. Please try again."
)

// SampleDataClient checks for and creates demo orders and invoices.
type SampleDataClient interface {
	CheckSampleData(ctx context.Context, userID string) (bool, error)
	PopulateSampleData(ctx context.Context, userID string) (*transport.PopulateResult, error)
}

// SampleDataState records what is known about the user's demo data.
type SampleDataState int

const (
	SampleDataUnknown SampleDataState = iota
	SampleDataMissing
	SampleDataPresent
)

func (s SampleDataState) String() string {
	switch s {
	case SampleDataMissing:
		return "missing"
	case SampleDataPresent:
		return "present"
	default:
		return "unknown"
	}
}

// CheckSampleData asks the service whether the user has demo data. When the
// check fails the state becomes SampleDataMissing so the user is still
// offered population.
func (c *Controller) CheckSampleData(ctx context.Context) (bool, error) {
	if c.userID == "" {
		return false, transport.ErrUnauthenticated
	}
	if c.sample == nil {
		return false, errors.New("sample data is not supported by this client")
	}

	has, err := c.sample.CheckSampleData(ctx, c.userID)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to check sample data, assuming none")
		c.setSampleData(SampleDataMissing)
		return false, errors.Wrap(err, "checking sample data")
	}

	if has {
		c.setSampleData(SampleDataPresent)
	} else {
		c.setSampleData(SampleDataMissing)
	}
	return has, nil
}

// PopulateSampleData creates demo data for the user and records the result
// as a system entry. Calls made while a population or a send is in flight are
// ignored.
func (c *Controller) PopulateSampleData(ctx context.Context) (Outcome, error) {
	if c.userID == "" {
		return OutcomeIgnored, transport.ErrUnauthenticated
	}
	if c.sample == nil {
		return OutcomeIgnored, errors.New("sample data is not supported by this client")
	}
	if !c.turn.TryLock() {
		c.log.Debug().Msg("busy, ignoring sample data request")
		return OutcomeIgnored, nil
	}
	defer c.turn.Unlock()
	if !c.populating.CompareAndSwap(false, true) {
		return OutcomeIgnored, nil
	}
	defer c.populating.Store(false)

	if _, err := c.sample.PopulateSampleData(ctx, c.userID); err != nil {
		c.log.Warn().Err(err).Msg("failed to populate sample data")
		c.append(domain.NewSystemMessage(SampleDataFailureNotice))
		return OutcomeFailed, nil
	}

	c.setSampleData(SampleDataPresent)
	c.append(domain.NewSystemMessage(SampleDataSuccessNotice))
	return OutcomeDelivered, nil
}

func (c *Controller) setSampleData(s SampleDataState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampleData = s
}
