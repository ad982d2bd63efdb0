package assistant

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// CannedResponses are the answers CannedClient picks from
var CannedResponses = []string{
	"Based on the course material, neural networks are computational models inspired by the structure of the human brain. They consist of layers of interconnected nodes or 'neurons' that process and transform input data to produce an output.",
	"In web development, React components follow a unidirectional data flow. Props are passed from parent to child components, and state is managed within components or through state management libraries like Redux or Context API.",
	"For your data science project, I recommend starting with exploratory data analysis (EDA). This will help you understand the dataset's structure, identify patterns, and spot any anomalies before applying machine learning algorithms.",
	"The difference between supervised and unsupervised learning is that supervised learning uses labeled data to train models, while unsupervised learning works with unlabeled data to discover patterns and relationships.",
}

// CannedClient ignores the question and returns a random canned answer
// after an optional delay
type CannedClient struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	delay time.Duration
}

type CannedOption func(*CannedClient)

// WithSource makes the picks reproducible
func WithSource(src rand.Source) CannedOption {
	return func(c *CannedClient) { c.rnd = rand.New(src) }
}

// WithDelay simulates thinking time; Ask returns early if ctx is done
func WithDelay(d time.Duration) CannedOption {
	return func(c *CannedClient) { c.delay = d }
}

func NewCannedClient(opts ...CannedOption) *CannedClient {
	c := &CannedClient{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CannedClient) Ask(ctx context.Context, _ string) (string, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	idx := c.rnd.Intn(len(CannedResponses))
	c.mu.Unlock()
	return CannedResponses[idx], nil
}
