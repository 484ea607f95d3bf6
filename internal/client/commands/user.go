package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/loamhq/userdir/internal/client"
	"github.com/loamhq/userdir/internal/client/auth"
	"github.com/loamhq/userdir/internal/client/config"
	"github.com/loamhq/userdir/internal/client/errors"
	"github.com/loamhq/userdir/internal/client/output"
	"github.com/loamhq/userdir/internal/client/prompts"
	"github.com/loamhq/userdir/internal/client/validation"
)

var (
	flagUserID       int64
	flagUserUsername string
	flagUserPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user records",
	Long:  `Create, list, inspect, update and delete user records on the server.`,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	Run:   runUserList,
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single user record",
	Args:  cobra.ExactArgs(1),
	Run:   runUserGet,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user record",
	Long: `Create a new user record on the server.

The id is assigned by the server unless --id is given explicitly.`,
	Args: cobra.NoArgs,
	Run:  runUserCreate,
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing user record",
	Args:  cobra.ExactArgs(1),
	Run:   runUserUpdate,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user record",
	Args:  cobra.ExactArgs(1),
	Run:   runUserDelete,
}

// userRecord mirrors the server's user payload.
type userRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// getAuthenticatedClient resolves URL and token and builds an HTTP client.
func getAuthenticatedClient() *client.Client {
	serverURL, err := config.ResolveURL(flagURL)
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	token, err := auth.ResolveToken(flagToken)
	if err != nil {
		errors.ExitWithError(err, "failed to resolve authentication token")
	}
	if token == "" {
		errors.ExitWithCode(errors.ExitAuthError, "not authenticated. Run 'userdirctl login' or provide --token")
	}

	return client.NewClient(serverURL, base64.StdEncoding.EncodeToString([]byte(token)), flagTimeout, flagVerbose)
}

// decodeAPIError extracts the server error message from a response body.
func decodeAPIError(body []byte, fallback string) string {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return fallback
}

func runUserList(cmd *cobra.Command, args []string) {
	c := getAuthenticatedClient()

	resp, err := c.Get("/api/v1/users")
	if err != nil {
		errors.ExitWithError(err, "failed to list users")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, decodeAPIError(body, "failed to list users"))
	}

	var users []userRecord
	if err := json.Unmarshal(body, &users); err != nil {
		errors.ExitWithError(err, "failed to parse server response")
	}

	if flagJSON {
		output.OutputJSON(users, nil)
		return
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return
	}

	tw := output.NewTableWriter()
	tw.WriteHeader("ID", "USERNAME")
	for _, u := range users {
		tw.WriteRow(strconv.FormatInt(u.ID, 10), u.Username)
	}
	tw.Flush()
}

func runUserGet(cmd *cobra.Command, args []string) {
	id, err := validation.ParseUserID(args[0])
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	c := getAuthenticatedClient()

	resp, err := c.Get(fmt.Sprintf("/api/v1/users/%d", id))
	if err != nil {
		errors.ExitWithError(err, "failed to get user")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, decodeAPIError(body, fmt.Sprintf("failed to get user %d", id)))
	}

	var user userRecord
	if err := json.Unmarshal(body, &user); err != nil {
		errors.ExitWithError(err, "failed to parse server response")
	}

	if flagJSON {
		output.OutputJSON(user, nil)
		return
	}

	tw := output.NewTableWriter()
	tw.WriteHeader("ID", "USERNAME")
	tw.WriteRow(strconv.FormatInt(user.ID, 10), user.Username)
	tw.Flush()
}

func runUserCreate(cmd *cobra.Command, args []string) {
	if err := validation.ValidateUsernameArg(flagUserUsername); err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	password := flagUserPassword
	if password == "" {
		var err error
		password, err = prompts.PromptPassword()
		if err != nil {
			errors.ExitWithError(err, "failed to read password")
		}
	}

	payload := userRecord{
		ID:       flagUserID,
		Username: flagUserUsername,
		Password: password,
	}

	c := getAuthenticatedClient()

	resp, err := c.Post("/api/v1/users", payload)
	if err != nil {
		errors.ExitWithError(err, "failed to create user")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		errors.HandleHTTPError(resp.StatusCode, decodeAPIError(body, "failed to create user"))
	}

	var created userRecord
	if err := json.Unmarshal(body, &created); err != nil {
		errors.ExitWithError(err, "failed to parse server response")
	}

	if flagJSON {
		output.OutputJSON(created, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Created user %s (id %d)", created.Username, created.ID))
	}
}

func runUserUpdate(cmd *cobra.Command, args []string) {
	id, err := validation.ParseUserID(args[0])
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}
	if err := validation.ValidateUsernameArg(flagUserUsername); err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	password := flagUserPassword
	if password == "" {
		password, err = prompts.PromptPassword()
		if err != nil {
			errors.ExitWithError(err, "failed to read password")
		}
	}

	payload := userRecord{
		ID:       id,
		Username: flagUserUsername,
		Password: password,
	}

	c := getAuthenticatedClient()

	resp, err := c.Put(fmt.Sprintf("/api/v1/users/%d", id), payload)
	if err != nil {
		errors.ExitWithError(err, "failed to update user")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		errors.HandleHTTPError(resp.StatusCode, decodeAPIError(body, fmt.Sprintf("failed to update user %d", id)))
	}

	var updated userRecord
	if err := json.Unmarshal(body, &updated); err != nil {
		errors.ExitWithError(err, "failed to parse server response")
	}

	if flagJSON {
		output.OutputJSON(updated, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Updated user %s (id %d)", updated.Username, updated.ID))
	}
}

func runUserDelete(cmd *cobra.Command, args []string) {
	id, err := validation.ParseUserID(args[0])
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	if !flagYes {
		if !prompts.ConfirmDeletion("user", args[0]) {
			fmt.Println("Deletion cancelled")
			return
		}
	}

	c := getAuthenticatedClient()

	resp, err := c.Delete(fmt.Sprintf("/api/v1/users/%d", id))
	if err != nil {
		errors.ExitWithError(err, "failed to delete user")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusNoContent {
		errors.HandleHTTPError(resp.StatusCode, decodeAPIError(body, fmt.Sprintf("failed to delete user %d", id)))
	}

	if flagJSON {
		output.OutputJSON(map[string]interface{}{"deleted": true, "id": id}, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Deleted user %d", id))
	}
}

func init() {
	userCreateCmd.Flags().Int64Var(&flagUserID, "id", 0, "Explicit user id (0 lets the server assign one)")
	userCreateCmd.Flags().StringVar(&flagUserUsername, "username", "", "Username for the new user (required)")
	userCreateCmd.Flags().StringVar(&flagUserPassword, "password", "", "Password for the new user (prompted if omitted)")
	userCreateCmd.MarkFlagRequired("username")

	userUpdateCmd.Flags().StringVar(&flagUserUsername, "username", "", "New username (required)")
	userUpdateCmd.Flags().StringVar(&flagUserPassword, "password", "", "New password (prompted if omitted)")
	userUpdateCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
