package dataset

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SplitOptions configures Split.
type SplitOptions struct {
	// Ratio is the fraction of rows assigned to the training partition.
	Ratio float64 `yaml:"ratio"`
	// Shuffle permutes rows with Seed before cutting; otherwise the first
	// rows train and the remainder evaluate.
	Shuffle bool  `yaml:"shuffle"`
	Seed    int64 `yaml:"seed"`
}

// DefaultSplit is the 90/10 shuffled split.
func DefaultSplit() SplitOptions {
	return SplitOptions{Ratio: 0.9, Shuffle: true, Seed: 42}
}

// TrainSize is the number of training rows for a dataset of n rows.
func (o SplitOptions) TrainSize(n int) int {
	return int(math.Round(o.Ratio * float64(n)))
}

// Indexes returns the train and test row indexes for n rows. Every index
// in [0, n) appears in exactly one of them.
func (o SplitOptions) Indexes(n int) (train, test []int) {
	order := make([]int, n)
	if o.Shuffle {
		order = rand.New(rand.NewSource(o.Seed)).Perm(n)
	} else {
		for i := range order {
			order[i] = i
		}
	}
	k := o.TrainSize(n)
	return order[:k], order[k:]
}

// Split partitions d into a training and an evaluation dataset.
func Split(d *Dataset, o SplitOptions) (train, test *Dataset, err error) {
	if o.Ratio <= 0 || o.Ratio >= 1 {
		return nil, nil, errors.Errorf("split ratio %v outside (0, 1)", o.Ratio)
	}
	trainIdx, testIdx := o.Indexes(d.Len())
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, errors.Wrapf(ErrSchema, "ratio %v leaves an empty partition of %d rows", o.Ratio, d.Len())
	}
	if train, err = d.Subset(trainIdx); err != nil {
		return nil, nil, err
	}
	if test, err = d.Subset(testIdx); err != nil {
		return nil, nil, err
	}
	log.Debug().Int("train", train.Len()).Int("test", test.Len()).Msg("split dataset")
	return train, test, nil
}
