package ggl

// Status is a rendering status code. Drawing operations never return
// errors; failures are queued on the destination surface and drained one
// at a time with Surface.Status.
//
// Status implements error so constructors can return it wrapped:
//
//	s, err := ggl.NewSurface(dev, fmt, 64, 64)
//	if errors.Is(err, ggl.StatusNoMemory) { ... }
type Status uint8

// Status codes, in the order Surface.Status reports them.
const (
	StatusSuccess Status = iota
	StatusNoMemory
	StatusBadCoordinate
	StatusNotSupported
	StatusInvalidMatrix
	StatusNullPointer

	statusCount
)

var statusNames = [statusCount]string{
	"success",
	"no memory",
	"bad coordinate",
	"not supported",
	"invalid matrix",
	"null pointer",
}

func (s Status) String() string {
	if s < statusCount {
		return statusNames[s]
	}
	return "unknown status"
}

// Error implements the error interface.
func (s Status) Error() string {
	return "ggl: " + s.String()
}

// statusSet is the set of pending statuses of a surface. Adding a status
// that is already pending has no effect.
type statusSet uint8

func (q *statusSet) add(s Status) {
	if s != StatusSuccess && s < statusCount {
		*q |= 1 << s
	}
}

// pop removes and returns the most severe pending status.
func (q *statusSet) pop() Status {
	for s := StatusNoMemory; s < statusCount; s++ {
		if *q&(1<<s) != 0 {
			*q &^= 1 << s
			return s
		}
	}
	return StatusSuccess
}

func (q statusSet) empty() bool {
	return q == 0
}
