package cart

import "time"

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)
