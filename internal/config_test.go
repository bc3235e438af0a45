package internal_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			AllowedOrigins:    "*",
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Source:       "host=localhost dbname=company_directory",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Security: internal.SecurityConfig{
			JWTSecret:          "0123456789abcdef",
			TokenDuration:      time.Hour,
			CompanyEmailDomain: "@company.com",
		},
	}
}

var _ = Describe("Config", func() {
	It("should accept a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejected settings",
		func(mutate func(*internal.Config), message string) {
			cfg := validConfig()
			mutate(cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(message)))
		},
		Entry("missing secret", func(c *internal.Config) { c.Security.JWTSecret = "" }, "jwt_secret is required"),
		Entry("short secret", func(c *internal.Config) { c.Security.JWTSecret = "short" }, "at least 16"),
		Entry("domain without at sign", func(c *internal.Config) { c.Security.CompanyEmailDomain = "company.com" }, "must start with '@'"),
		Entry("idle above open", func(c *internal.Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"),
		Entry("missing dsn", func(c *internal.Config) { c.Database.Source = "" }, "source is required"),
		Entry("negative rate", func(c *internal.Config) { c.Server.RateLimit.RequestsPerSecond = -1 }, "rate_limit"),
	)

	It("should fill the optional settings", func() {
		cfg := &internal.Config{}
		cfg.ApplyDefaults()
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.TokenDuration).To(Equal(time.Hour))
		Expect(cfg.Security.CompanyEmailDomain).To(Equal("@company.com"))
		Expect(cfg.Workers.SessionSweepSchedule).To(Equal(internal.DefaultSessionSweep))
	})

	It("should build a pgx keyword dsn", func() {
		dsn := internal.BuildPostgresDSN("db", 5432, "directory", "app", "", "UTF8", "disable")
		Expect(dsn).To(Equal("host=db port=5432 dbname=directory user=app client_encoding=UTF8 sslmode=disable"))
	})
})

var _ = Describe("AppError", func() {
	It("should keep sentinels untouched when a cause is attached", func() {
		cause := errors.New("connection reset")
		wrapped := internal.ErrSessionExpired.WithCause(cause)

		Expect(internal.ErrSessionExpired.Cause).To(BeNil())
		Expect(errors.Is(wrapped, internal.ErrSessionExpired)).To(BeTrue())
		Expect(errors.Unwrap(wrapped)).To(Equal(cause))
	})

	It("should report only the message", func() {
		err := internal.NewInternalError("failed to get user", errors.New("driver detail"))
		Expect(err.Error()).To(Equal("failed to get user"))
		Expect(err.StatusCode).To(Equal(http.StatusInternalServerError))
	})
})
