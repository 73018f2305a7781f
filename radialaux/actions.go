package radialaux

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/soypat/gradial/overlay"
)

// CommandAction returns an action which starts the command line without
// waiting for it to finish. Arguments are split on white space.
func CommandAction(cmdline string) (overlay.Action, error) {
	args := strings.Fields(cmdline)
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	path, err := exec.LookPath(args[0])
	if err != nil {
		return nil, err
	}
	return func(segment int) error {
		cmd := exec.Command(path, args[1:]...)
		err := cmd.Start()
		if err != nil {
			return fmt.Errorf("starting %q: %w", cmdline, err)
		}
		go cmd.Wait() // Reap the process.
		return nil
	}, nil
}
