/*
 * Iptv-Proxy is a project to proxyfie an m3u file and to proxyfie an Xtream iptv service (client API).
 * Copyright (C) 2020  Pierre-Emmanuel Jacquier
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/server"
	"github.com/lucasduport/stalker-share/pkg/utils"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stalker-share",
	Short: "Share one Stalker portal account through a web friendly API",
	Long: `stalker-share logs in to a Stalker/MAG middleware portal with a single
device identity and exposes its catalog as a JSON API.

It supports:
- Live TV, VOD, series and radio catalogs with pagination
- Favorites and EPG
- Stream proxying with HLS playlist rewriting and range requests
- M3U export of channel categories`,

	Run: func(cmd *cobra.Command, args []string) {
		config.DebugLoggingEnabled = viper.GetBool("debug-logging")
		utils.SetDebugLogging(config.DebugLoggingEnabled)
		defer utils.Close()

		conf := &config.ProxyConfig{
			HostConfig: &config.HostConfiguration{
				Hostname: viper.GetString("hostname"),
				Port:     viper.GetInt("port"),
			},
			Portal: &config.PortalConfig{
				URL:            viper.GetString("portal-url"),
				MAC:            viper.GetString("portal-mac"),
				Token:          config.CredentialString(viper.GetString("portal-token")),
				Prehash:        config.CredentialString(viper.GetString("portal-prehash")),
				DeviceID:       config.CredentialString(viper.GetString("portal-device-id")),
				Serial:         config.CredentialString(viper.GetString("portal-serial")),
				Signature:      config.CredentialString(viper.GetString("portal-signature")),
				MaxConnections: viper.GetInt("max-connections"),
				ExpireDate:     viper.GetString("expire-date"),
				CreatedDate:    viper.GetString("created-date"),
			},
			HTTPS:            viper.GetBool("https"),
			SessionTTL:       viper.GetDuration("session-ttl"),
			APITimeout:       viper.GetDuration("api-timeout"),
			MaxPages:         viper.GetInt("max-pages"),
			PageRate:         viper.GetInt("page-rate"),
			CatalogCacheTTL:  viper.GetDuration("catalog-cache-ttl"),
			PlaylistMaxBytes: viper.GetInt64("playlist-max-bytes"),
		}

		if conf.Portal.MAC == "" {
			utils.WarnLog("No portal MAC configured, most portals will refuse the handshake")
		}

		server, err := server.NewServer(conf)
		if err != nil {
			log.Fatal(err)
		}

		if err := server.Serve(); err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.stalker-share.yaml)")

	// Portal account
	rootCmd.Flags().String("portal-url", "", "Portal load.php URL, e.g. http://host/stalker_portal/server/load.php")
	rootCmd.Flags().String("portal-mac", "", "MAC address registered on the portal")
	rootCmd.Flags().String("portal-token", "", "Handshake token")
	rootCmd.Flags().String("portal-prehash", "", "Handshake prehash")
	rootCmd.Flags().String("portal-device-id", "", "Device ID sent with the profile request")
	rootCmd.Flags().String("portal-serial", "", "Device serial number")
	rootCmd.Flags().String("portal-signature", "", "Device signature")
	rootCmd.Flags().Int("max-connections", 1, "Concurrent streams allowed by the subscription")
	rootCmd.Flags().String("expire-date", "", "Subscription expiry date shown in /api/config")
	rootCmd.Flags().String("created-date", "", "Subscription creation date shown in /api/config")

	// Listener
	rootCmd.Flags().Int("port", 5000, "Listening port")
	rootCmd.Flags().String("hostname", "", "Hostname to use in generated URLs")
	rootCmd.Flags().BoolP("https", "", false, "Use HTTPS for generated URLs")

	// Portal behaviour
	rootCmd.Flags().Duration("session-ttl", config.DefaultSessionTTL, "How long a portal login is reused")
	rootCmd.Flags().Duration("api-timeout", config.DefaultAPITimeout, "Timeout of a single portal request")
	rootCmd.Flags().Int("max-pages", config.DefaultMaxPages, "Maximum pages fetched per listing")
	rootCmd.Flags().Int("page-rate", 0, "Maximum pages requested per second, 0 for no limit")
	rootCmd.Flags().Duration("catalog-cache-ttl", config.DefaultCatalogCacheTTL, "Category listing cache duration, 0 to disable")
	rootCmd.Flags().Int64("playlist-max-bytes", config.DefaultPlaylistMaxBytes, "Largest HLS playlist that gets rewritten")

	rootCmd.Flags().Bool("debug-logging", false, "Enable debug logging")

	// Bind all flags to viper
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		log.Fatal("Error binding PFlags to viper")
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".stalker-share")
	}

	// PORTAL_URL, PORTAL_MAC, SESSION_TTL...
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		utils.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}
