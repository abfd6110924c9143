package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/store"
)

// The commands below seed and maintain the matching pool. Every write goes
// through the store scope checks with the identity given by --as/--role.

var vacancyCmd = &cobra.Command{
	Use:   "vacancy",
	Short: "Manage vacancies",
}

var vacancyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a vacancy owned by the caller",
	Run:   withStore(vacancyCreate),
}

var vacancyUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the given fields of a vacancy",
	Run:   withStore(vacancyUpdate),
}

var vacancyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a vacancy with its applications",
	Run:   withStore(vacancyDelete),
}

var vacancyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the vacancies of the caller",
	Run:   withStore(vacancyList),
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage job seeker profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a profile",
	Run:   withStore(profileSet),
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a profile",
	Run:   withStore(profileDelete),
}

var applicationCmd = &cobra.Command{
	Use:   "application",
	Short: "Review or withdraw applications",
}

var applicationStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Move an application through review (vacancy owner)",
	Run:   withStore(applicationStatus),
}

var applicationWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw an own application",
	Run:   withStore(applicationWithdraw),
}

func init() {
	rootCmd.AddCommand(vacancyCmd, profileCmd, applicationCmd)
	vacancyCmd.AddCommand(vacancyCreateCmd, vacancyUpdateCmd, vacancyDeleteCmd, vacancyListCmd)
	profileCmd.AddCommand(profileSetCmd, profileDeleteCmd)
	applicationCmd.AddCommand(applicationStatusCmd, applicationWithdrawCmd)

	addIdentityFlags(vacancyCmd, string(store.RoleEmployer))
	addIdentityFlags(profileCmd, string(store.RoleJobSeeker))
	addIdentityFlags(applicationCmd, string(store.RoleEmployer))

	for _, c := range []*cobra.Command{vacancyCreateCmd, vacancyUpdateCmd} {
		addVacancyFlags(c)
	}
	for _, c := range []*cobra.Command{vacancyUpdateCmd, vacancyDeleteCmd} {
		c.Flags().String("id", "", "vacancy id")
		c.MarkFlagRequired("id")
	}

	profileSetCmd.Flags().String("user", "", "profile owner (default is the caller)")
	profileSetCmd.Flags().String("name", "", "full name")
	profileSetCmd.Flags().StringSlice("skills", nil, "comma separated skills")
	profileSetCmd.Flags().String("experience", "", "work experience")
	profileSetCmd.Flags().String("education", "", "education")
	profileSetCmd.Flags().String("bio", "", "short bio")
	profileDeleteCmd.Flags().String("user", "", "profile owner (default is the caller)")

	for _, c := range []*cobra.Command{applicationStatusCmd, applicationWithdrawCmd} {
		c.Flags().String("id", "", "application id")
		c.MarkFlagRequired("id")
	}
	applicationStatusCmd.Flags().String("status", "", "reviewed, accepted or rejected")
	applicationStatusCmd.MarkFlagRequired("status")
}

func addIdentityFlags(c *cobra.Command, role string) {
	c.PersistentFlags().String("as", "", "id of the acting user")
	c.PersistentFlags().String("role", role, "role of the acting user (admin, employer, job_seeker)")
	c.MarkPersistentFlagRequired("as")
}

func addVacancyFlags(c *cobra.Command) {
	c.Flags().String("title", "", "vacancy title")
	c.Flags().String("company", "", "company name")
	c.Flags().String("location", "", "location")
	c.Flags().String("requirements", "", "free-form requirements")
	c.Flags().StringSlice("skills", nil, "comma separated skills")
	c.Flags().Int("salary-min", 0, "lower salary bound, 0 for none")
	c.Flags().Int("salary-max", 0, "upper salary bound, 0 for none")
	c.Flags().String("work-type", "", "full-time, part-time, remote...")
	c.Flags().Bool("urgent", false, "mark the vacancy as urgent")
	c.Flags().String("status", "", "open, closed or draft (default open)")
}

// withStore runs fn with a database-backed setup and fails the command on error.
func withStore(fn func(ctx context.Context, cmd *cobra.Command, d *deps) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		d := setup(ctx, true)
		defer d.Close()

		if err := fn(ctx, cmd, d); err != nil {
			d.logger.Fatal(cmd.CommandPath()+" failed", zap.Error(err))
		}
	}
}

func callerFromFlags(cmd *cobra.Command) (store.Caller, error) {
	as, _ := cmd.Flags().GetString("as")
	id, err := uuid.Parse(as)
	if err != nil {
		return store.Caller{}, fmt.Errorf("parse --as: %w", err)
	}
	rawRole, _ := cmd.Flags().GetString("role")
	role, err := store.ParseRole(rawRole)
	if err != nil {
		return store.Caller{}, err
	}
	return store.Caller{ID: id, Role: role}, nil
}

func idFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse --%s: %w", name, err)
	}
	return id, nil
}

// applyVacancyFlags copies the flags the user actually set onto v.
func applyVacancyFlags(cmd *cobra.Command, v store.Vacancy) (store.Vacancy, error) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		v.Title, _ = flags.GetString("title")
	}
	if flags.Changed("company") {
		v.Company, _ = flags.GetString("company")
	}
	if flags.Changed("location") {
		v.Location, _ = flags.GetString("location")
	}
	if flags.Changed("requirements") {
		v.Requirements, _ = flags.GetString("requirements")
	}
	if flags.Changed("skills") {
		v.Skills, _ = flags.GetStringSlice("skills")
	}
	if flags.Changed("salary-min") {
		v.SalaryMin, _ = flags.GetInt("salary-min")
	}
	if flags.Changed("salary-max") {
		v.SalaryMax, _ = flags.GetInt("salary-max")
	}
	if flags.Changed("work-type") {
		v.WorkType, _ = flags.GetString("work-type")
	}
	if flags.Changed("urgent") {
		v.Urgent, _ = flags.GetBool("urgent")
	}
	if flags.Changed("status") {
		v.Status, _ = flags.GetString("status")
	}

	if v.SalaryMin < 0 || v.SalaryMax < 0 || (v.SalaryMax > 0 && v.SalaryMin > v.SalaryMax) {
		return v, fmt.Errorf("invalid salary range %d - %d", v.SalaryMin, v.SalaryMax)
	}
	if err := store.ValidateVacancyStatus(v.Status); err != nil {
		return v, err
	}
	return v, nil
}

func vacancyCreate(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}
	v, err := applyVacancyFlags(cmd, store.Vacancy{})
	if err != nil {
		return err
	}
	if v.Title == "" {
		return fmt.Errorf("--title is required")
	}

	created, err := d.store.CreateVacancy(ctx, caller, v)
	if err != nil {
		return err
	}
	d.logger.Info("vacancy created", zap.String("vacancy_id", created.ID.String()))
	return printJSON(created)
}

func vacancyUpdate(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := idFlag(cmd, "id")
	if err != nil {
		return err
	}

	current, err := d.store.GetVacancyForCaller(ctx, caller, id)
	if err != nil {
		return err
	}
	v, err := applyVacancyFlags(cmd, current)
	if err != nil {
		return err
	}

	updated, err := d.store.UpdateVacancy(ctx, caller, v)
	if err != nil {
		return err
	}
	d.logger.Info("vacancy updated", zap.String("vacancy_id", updated.ID.String()))
	return printJSON(updated)
}

func vacancyDelete(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := idFlag(cmd, "id")
	if err != nil {
		return err
	}
	if err := d.store.DeleteVacancy(ctx, caller, id); err != nil {
		return err
	}
	d.logger.Info("vacancy deleted", zap.String("vacancy_id", id.String()))
	return nil
}

func vacancyList(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}
	vacancies, err := d.store.ListVacanciesByOwner(ctx, caller.ID)
	if err != nil {
		return err
	}
	d.logger.Info("current list of vacancies", zap.Int("count", len(vacancies)))
	return printJSON(vacancies)
}

func profileSet(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}

	p := store.Profile{UserID: caller.ID}
	if raw, _ := cmd.Flags().GetString("user"); raw != "" {
		if p.UserID, err = uuid.Parse(raw); err != nil {
			return fmt.Errorf("parse --user: %w", err)
		}
	}
	p.FullName, _ = cmd.Flags().GetString("name")
	p.Skills, _ = cmd.Flags().GetStringSlice("skills")
	p.Experience, _ = cmd.Flags().GetString("experience")
	p.Education, _ = cmd.Flags().GetString("education")
	p.Bio, _ = cmd.Flags().GetString("bio")

	saved, err := d.store.UpsertProfile(ctx, caller, p)
	if err != nil {
		return err
	}
	d.logger.Info("profile saved", zap.String("user_id", saved.UserID.String()))
	return printJSON(saved)
}

func profileDelete(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}

	userID := caller.ID
	if raw, _ := cmd.Flags().GetString("user"); raw != "" {
		if userID, err = uuid.Parse(raw); err != nil {
			return fmt.Errorf("parse --user: %w", err)
		}
	}
	if err := d.store.DeleteProfile(ctx, caller, userID); err != nil {
		return err
	}
	d.logger.Info("profile deleted", zap.String("user_id", userID.String()))
	return nil
}

func applicationStatus(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := idFlag(cmd, "id")
	if err != nil {
		return err
	}
	status, _ := cmd.Flags().GetString("status")
	if err := store.ValidateApplicationStatus(status); err != nil {
		return err
	}

	if err := d.store.UpdateApplicationStatus(ctx, caller, id, status); err != nil {
		return err
	}
	d.logger.Info("application status changed",
		zap.String("application_id", id.String()),
		zap.String("status", status),
	)
	return nil
}

func applicationWithdraw(ctx context.Context, cmd *cobra.Command, d *deps) error {
	caller, err := callerFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := idFlag(cmd, "id")
	if err != nil {
		return err
	}
	if err := d.store.DeleteApplication(ctx, caller, id); err != nil {
		return err
	}
	d.logger.Info("application withdrawn", zap.String("application_id", id.String()))
	return nil
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
