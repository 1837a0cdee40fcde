//go:build windows

package wintoast

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	comtoast "git.sr.ht/~jackmordaunt/go-toast/wintoast"
	"github.com/go-toast/toast"
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/usernotify/internal/store"
)

// New returns the platform for appID, recording shown toasts in st
func New(appID string, st store.Store, log zerolog.Logger) *Platform {
	return newPlatform(appID, st, log, runPowerShell, pushTemplate, comActivator{})
}

// Available reports whether PowerShell can be found
func Available() bool {
	_, err := exec.LookPath("powershell")
	return err == nil
}

func runPowerShell(s script) (string, error) {
	cmd := exec.Command("powershell", "-ExecutionPolicy", "Bypass", "-NoProfile", "-NonInteractive", "-Command", s.text)
	cmd.Env = os.Environ()
	for k, v := range s.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return string(out), nil
}

// comActivator registers the application as its own toast activator and
// pushes through the COM notifier
type comActivator struct{}

func (comActivator) Push(appID, xml string) error {
	if err := comtoast.SetAppData(comtoast.AppData{AppID: appID, GUID: activatorGUID(appID)}); err != nil {
		return fmt.Errorf("registering toast activator: %w", err)
	}
	return comtoast.Push(xml)
}

func (comActivator) SetCallback(cb func(appID, arguments string, inputs map[string]string)) {
	comtoast.SetActivationCallback(func(appID, arguments string, data []comtoast.UserData) {
		inputs := make(map[string]string, len(data))
		for _, d := range data {
			inputs[d.Key] = d.Value
		}
		cb(appID, arguments, inputs)
	})
}

func pushTemplate(n simpleToast) error {
	notification := toast.Notification{
		AppID:   n.AppID,
		Title:   n.Title,
		Message: n.Message,
	}
	audio, err := toast.Audio(n.Audio)
	if err != nil {
		audio = toast.Default
	}
	notification.Audio = audio
	if n.Launch != "" {
		notification.ActivationType = "protocol"
		notification.ActivationArguments = n.Launch
	}
	for _, a := range n.Actions {
		notification.Actions = append(notification.Actions, toast.Action{
			Type:      "protocol",
			Label:     a.Label,
			Arguments: a.Arguments,
		})
	}
	return notification.Push()
}
