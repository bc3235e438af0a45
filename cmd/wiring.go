package cmd

import (
	"log/slog"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/admin"
	adminPostgres "github.com/frahmantamala/company-directory/internal/admin/postgres"
	"github.com/frahmantamala/company-directory/internal/app"
	appPostgres "github.com/frahmantamala/company-directory/internal/app/postgres"
	"github.com/frahmantamala/company-directory/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/company-directory/internal/assignment/postgres"
	"github.com/frahmantamala/company-directory/internal/auth"
	authPostgres "github.com/frahmantamala/company-directory/internal/auth/postgres"
	"github.com/frahmantamala/company-directory/internal/companyposition"
	positionPostgres "github.com/frahmantamala/company-directory/internal/companyposition/postgres"
	"github.com/frahmantamala/company-directory/internal/core/events"
	"github.com/frahmantamala/company-directory/internal/department"
	departmentPostgres "github.com/frahmantamala/company-directory/internal/department/postgres"
	"github.com/frahmantamala/company-directory/internal/transport"
	"github.com/frahmantamala/company-directory/internal/transport/rest"
	"github.com/frahmantamala/company-directory/internal/user"
	userPostgres "github.com/frahmantamala/company-directory/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Services is the wired domain layer shared by the server, seeder and
// workers.
type Services struct {
	Events          *events.EventBus
	App             *app.Service
	User            *user.Service
	Admin           *admin.Service
	Auth            *auth.Service
	Department      *department.Service
	CompanyPosition *companyposition.Service
	Assignment      *assignment.Service
}

func NewServices(cfg *internal.Config, gdb *gorm.DB, db *sqlx.DB, lg *slog.Logger) *Services {
	bus := events.NewEventBus(lg)
	bus.SubscribeAll(events.DirectoryEventTypes, events.AuditLogHandler(lg.With("component", "audit")))

	userRepo := userPostgres.NewUserRepository(gdb)
	departmentRepo := departmentPostgres.NewDepartmentRepository(gdb)
	positionRepo := positionPostgres.NewCompanyPositionRepository(gdb)
	hasher := user.NewBcryptHasher(cfg.Security.BCryptCost)

	adminService := admin.NewService(adminPostgres.NewAdminRepository(gdb), userRepo, bus, lg)
	assignmentService := assignment.NewService(
		assignmentPostgres.NewAssignmentRepository(gdb),
		departmentRepo,
		positionRepo,
		bus,
		lg,
	)

	return &Services{
		Events:          bus,
		App:             app.NewService(appPostgres.NewAppRepository(gdb), lg),
		Department:      department.NewService(departmentRepo, lg),
		CompanyPosition: companyposition.NewService(positionRepo, lg),
		Assignment:      assignmentService,
		Admin:           adminService,
		User: user.NewService(userRepo, user.ServiceOptions{
			Admins:      adminService,
			Placements:  assignmentService,
			Hasher:      hasher,
			EmailDomain: cfg.Security.CompanyEmailDomain,
			Events:      bus,
		}, lg),
		Auth: auth.NewService(
			userRepo,
			authPostgres.NewSessionRepository(db),
			auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenDuration),
			hasher,
			bus,
			lg,
		),
	}
}

// Controllers builds the routed handlers over s.
func (s *Services) Controllers(lg *slog.Logger) rest.Controllers {
	base := transport.NewBaseHandler(lg, s.Auth)
	return rest.Controllers{
		App:             app.NewHandler(base, s.App),
		User:            user.NewHandler(base, s.User, s.Assignment),
		Admin:           admin.NewHandler(base, s.Admin),
		Auth:            auth.NewHandler(base, s.Auth, s.User, s.Assignment),
		Department:      department.NewHandler(base, s.Department),
		CompanyPosition: companyposition.NewHandler(base, s.CompanyPosition),
		Assignment:      assignment.NewHandler(base, s.Assignment),
	}
}
