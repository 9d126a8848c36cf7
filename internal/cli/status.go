package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and admin access",
		Long:  "Tests the connection to the server and checks whether the configured admin token is accepted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	token := getAdminToken()

	fmt.Printf("Server:  %s\n", serverURL)

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		fmt.Printf("Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}
	closeBody(resp)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Status:  ✗ unexpected response (%d)\n", resp.StatusCode)
		return nil
	}
	fmt.Println("Status:  ✓ connected")

	req, err := http.NewRequest("GET", serverURL+"/api/preregistrations", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}

	resp, err = client.Do(req)
	if err != nil {
		fmt.Printf("Admin:   ✗ request failed (%v)\n", err)
		return nil
	}
	closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Println("Admin:   ✓ admin endpoints available")
	case http.StatusUnauthorized:
		fmt.Println("Admin:   ✗ admin token missing or invalid")
		fmt.Println("\nRun 'vr config set admin-token <token>' to configure it.")
	default:
		fmt.Printf("Admin:   ✗ unexpected response (%d)\n", resp.StatusCode)
	}

	return nil
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		fmt.Printf("warning: closing response body: %v\n", cerr)
	}
}
