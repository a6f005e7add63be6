package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/atomicstack/watch-remote/internal/command"
)

const imageFormat = "PNG"

type okResponse struct {
	Status string `json:"status"`
	Cmd    string `json:"cmd"`
}

type stateResponse struct {
	Status string `json:"status"`
	Cmd    string `json:"cmd"`
	Text   string `json:"text"`
}

type errorResponse struct {
	Status string `json:"status"`
	Cmd    string `json:"cmd"`
	Error  string `json:"error"`
}

type screenshotHeader struct {
	Status string `json:"status"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Len    int    `json:"len"`
}

func writeLine(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// WriteOK writes a plain success response.
func WriteOK(w io.Writer, kind command.Kind) error {
	return writeLine(w, okResponse{Status: "ok", Cmd: kind.String()})
}

// WriteState writes a get_state success response carrying text.
func WriteState(w io.Writer, text string) error {
	return writeLine(w, stateResponse{Status: "ok", Cmd: command.GetText.String(), Text: text})
}

// WriteError writes a failure response. An empty cmd is reported as unknown.
func WriteError(w io.Writer, cmd string, reason command.Reason) error {
	if cmd == "" {
		cmd = UnknownCmd
	}
	return writeLine(w, errorResponse{Status: "error", Cmd: cmd, Error: string(reason)})
}

// WriteScreenshot writes the screenshot header line followed by exactly
// len(data) raw bytes.
func WriteScreenshot(w io.Writer, width, height int, data []byte) error {
	header := screenshotHeader{
		Status: "ok",
		Type:   "screenshot",
		Width:  width,
		Height: height,
		Format: imageFormat,
		Len:    len(data),
	}
	if err := writeLine(w, header); err != nil {
		return err
	}
	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("write screenshot payload: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("write screenshot payload: %w", io.ErrShortWrite)
	}
	return nil
}

// WriteResult writes the response for an executed command.
func WriteResult(w io.Writer, cmd command.Command) error {
	res := cmd.Result
	if res.Err != nil {
		return WriteError(w, cmd.Kind.String(), command.ReasonFor(cmd.Kind, res.Err))
	}
	switch cmd.Kind {
	case command.GetText:
		return WriteState(w, res.Text)
	case command.Screenshot:
		if len(res.Data) == 0 {
			return WriteError(w, cmd.Kind.String(), command.ReasonScreenshotFailed)
		}
		return WriteScreenshot(w, res.Width, res.Height, res.Data)
	}
	return WriteOK(w, cmd.Kind)
}

// WriteDecodeError writes the response for a request rejected by Decode.
func WriteDecodeError(w io.Writer, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return WriteError(w, de.Cmd, de.Reason)
	}
	return WriteError(w, UnknownCmd, command.ReasonInvalidJSON)
}
