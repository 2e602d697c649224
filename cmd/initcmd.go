package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"playlist-sync/internal/config"
	"playlist-sync/internal/util"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", config.DefaultConfigFile)
		}

		util.Default.Suspend()
		defer util.Default.Resume()

		transport := promptui.Select{
			Label: "Remote transport",
			Items: []string{config.FSLocal, config.FSRemoteShell},
		}
		_, fileSystem, err := transport.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %v", err)
		}

		ask := func(label, def string) (string, error) {
			p := promptui.Prompt{Label: label, Default: def}
			return p.Run()
		}

		cfg := config.Config{FileSystem: fileSystem}
		if cfg.MusicSrc, err = ask("Local music root", ""); err != nil {
			return err
		}
		if cfg.PlaylistSrc, err = ask("Local playlist directory", ""); err != nil {
			return err
		}
		if cfg.TmpDir, err = ask("Scratch directory", os.TempDir()); err != nil {
			return err
		}
		if cfg.MusicDst, err = ask("Remote music root", ""); err != nil {
			return err
		}
		if cfg.PlaylistDst, err = ask("Remote playlist root", ""); err != nil {
			return err
		}
		if fileSystem == config.FSRemoteShell {
			session := promptui.Select{
				Label: "Remote session",
				Items: []string{"adb device", "ssh host"},
			}
			idx, _, err := session.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %v", err)
			}
			if idx == 0 {
				if cfg.DeviceID, err = ask("Device id (adb -s)", ""); err != nil {
					return err
				}
			} else {
				if cfg.SSH.Host, err = ask("SSH host", ""); err != nil {
					return err
				}
				if cfg.SSH.Port, err = ask("SSH port", "22"); err != nil {
					return err
				}
				if cfg.SSH.Username, err = ask("SSH username", ""); err != nil {
					return err
				}
				if cfg.SSH.PrivateKey, err = ask("SSH private key path", ""); err != nil {
					return err
				}
			}
		}
		cfg.Playlists = []string{"example.m3u"}

		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(config.DefaultConfigFile, data, 0o644); err != nil {
			return err
		}

		util.Default.Resume()
		util.Default.Printf("✅ Wrote %s — edit the playlists list before the first run\n", config.DefaultConfigFile)
		return nil
	},
}
