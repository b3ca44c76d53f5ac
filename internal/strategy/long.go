package strategy

// LongStrategy holds every option long. It exists as a passive baseline for
// comparing the mispricing rule against simply owning the book.
type LongStrategy struct{}

func (s *LongStrategy) Name() string { return "long" }

func (s *LongStrategy) Decide(ctx Context) int { return 1 }
