package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Xterm renders frames on an ANSI terminal.
type Xterm struct {
	Writer io.Writer
}

// Clear wipes the screen and homes the cursor.
func (t *Xterm) Clear() {
	fmt.Fprint(t.Writer, "\033[2J\033[H")
}

func (t *Xterm) WriteLine(line string) error {
	_, err := fmt.Fprintln(t.Writer, line)
	return err
}

// ShowCursor toggles cursor visibility; hide it during playback so the
// cursor does not flicker over the frames.
func (t *Xterm) ShowCursor(show bool) {
	if show {
		fmt.Fprint(t.Writer, "\033[?12l\033[?25h")
	} else {
		fmt.Fprint(t.Writer, "\033[?25l")
	}
}

// EnterGate prompts on Out and waits for a newline on In. EOF counts as a
// start signal so piped stdin does not hang playback.
type EnterGate struct {
	In  io.Reader
	Out io.Writer
}

func (g *EnterGate) WaitForStart() error {
	fmt.Fprint(g.Out, "press enter to start playback...")
	_, err := bufio.NewReader(g.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
