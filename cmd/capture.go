package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rafamesquita/BlindStyle-TCC/internal/capture"
	"github.com/rafamesquita/BlindStyle-TCC/internal/media"
	"github.com/rafamesquita/BlindStyle-TCC/internal/media/webcam"
	"github.com/rafamesquita/BlindStyle-TCC/internal/speech"
	"github.com/rafamesquita/BlindStyle-TCC/internal/tui"
)

func newCaptureCmd() *cobra.Command {
	var facing string
	var filePath string

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a clothing photo and review its description",
		Long: `Opens the interactive capture session: take a photo with the camera or pick
an image file, review the extracted attributes, then save the item to your
history or ask for outfit suggestions.

The camera is released when the session ends, however it ends.`,
		Example: `  # Capture from the front camera
  blindstyle capture

  # Skip the camera and describe an image file
  blindstyle capture --file ./camisa.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			// Keep the token fresh for the duration of the session.
			a.session.StartAutoRefresh()
			defer a.session.StopAutoRefresh()

			grabber := webcam.New(a.cfg.WebcamCommand, a.cfg.FrontDevice, a.cfg.BackDevice)
			controller := media.NewController(grabber)
			workflow := capture.New(controller, a.client, a.client, a.client)
			speaker := speech.NewCommand(a.cfg.SpeechCommand)

			app := tui.NewApp(workflow, speaker, media.Facing(facing), filePath)
			return app.Run()
		},
	}

	cmd.Flags().StringVar(&facing, "facing", "front", "Camera facing preference: front or back")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Describe an image file instead of using the camera")

	return cmd
}
