package launcher

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/criyle/go-launcher/config"
)

var streamNames = [...]string{"stdin", "stdout", "stderr"}

// streams are the files given to the child as fd 0, 1 and 2. owned marks
// the fixed files that the child tightens with fchmod.
type streams struct {
	files []*os.File
	owned []bool
}

// openStreams opens the fixed files for the child standard streams. A stream
// without a usable file reads from or writes to the null device so the child
// never shares the launcher's own stdin, stdout or stderr.
func openStreams(cfg *config.Config, log *zap.Logger) (*streams, error) {
	type stream struct {
		path string
		flag int
	}
	specs := [...]stream{
		{cfg.Stdin, os.O_RDONLY},
		{cfg.Stdout, os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		{cfg.Stderr, os.O_RDWR | os.O_CREATE | os.O_APPEND},
	}

	s := &streams{
		files: make([]*os.File, len(specs)),
		owned: make([]bool, len(specs)),
	}
	for i, sp := range specs {
		if sp.path != "" {
			f, err := os.OpenFile(sp.path, sp.flag, cfg.FileMode.Perm())
			if err == nil {
				s.files[i], s.owned[i] = f, true
				continue
			}
			log.Warn("setup step failed",
				zap.String("step", "redirect"),
				zap.String("stream", streamNames[i]),
				zap.String("fallback", os.DevNull),
				zap.Error(err))
		}

		// only the access mode, never create or truncate the device
		f, err := os.OpenFile(os.DevNull, sp.flag&(os.O_RDONLY|os.O_WRONLY|os.O_RDWR), 0)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("%s: %w", streamNames[i], err)
		}
		s.files[i] = f
	}
	return s, nil
}

// fds returns the descriptors in stream order
func (s *streams) fds() []int {
	ret := make([]int, len(s.files))
	for i, f := range s.files {
		ret[i] = int(f.Fd())
	}
	return ret
}

// close closes all files in the list, safe to call more than once
func (s *streams) close() {
	for i, f := range s.files {
		if f != nil {
			f.Close()
			s.files[i] = nil
		}
	}
}
