package seed

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/guardia-dev/roster-manager/backend/internal/config"
	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/repository"
	"github.com/guardia-dev/roster-manager/backend/internal/utils"
)

var demoSites = []struct {
	Name    string
	Address string
}{
	{Name: "市中心商业广场", Address: "中山路 88 号"},
	{Name: "科技园区办公楼", Address: "高新大道 256 号"},
	{Name: "滨江物流园", Address: "滨江东路 12 号"},
}

const employeesPerSite = 8

// EnsureInitialCompany 确保配置中指定的初始公司存在，并返回其 ID
func EnsureInitialCompany(cfg *config.Config, r *repository.Repository) (int64, error) {
	id, err := r.GetCompanyIDByName(cfg.InitialCompany.Name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	company := &domain.Company{Name: cfg.InitialCompany.Name}
	if err := r.CreateCompany(company); err != nil {
		return 0, err
	}
	return company.ID, nil
}

// SeedDemoData 往初始公司下插入一整套演示数据：
// 站点、员工及其偏好和可用时间、每周人力需求规则、合同工时要求
func SeedDemoData(cfg *config.Config, r *repository.Repository) {
	companyID, err := EnsureInitialCompany(cfg, r)
	if err != nil {
		slog.Error("无法确保初始公司存在", "error", err)
		return
	}

	for _, demoSite := range demoSites {
		site := &domain.Site{
			CompanyID: companyID,
			Name:      demoSite.Name,
			Address:   demoSite.Address,
		}
		if err := r.CreateSite(site); err != nil {
			slog.Error("插入站点失败", "site", demoSite.Name, "error", err)
			continue
		}

		for i := 0; i < employeesPerSite; i++ {
			employee := utils.GenerateRandomEmployee(companyID, site.ID, cfg.Email.UserDomain)
			if err := r.CreateEmployee(employee); err != nil {
				slog.Error("插入员工失败", "error", err)
				continue
			}

			if err := r.UpsertPreference(utils.GenerateRandomPreference(employee.ID)); err != nil {
				slog.Error("插入员工偏好失败", "error", err)
				continue
			}

			if windows := utils.GenerateRandomAvailability(employee.ID); len(windows) > 0 {
				if err := r.ReplaceAvailability(employee.ID, windows); err != nil {
					slog.Error("插入员工可用时间失败", "error", err)
					continue
				}
			}
		}

		for weekday := int32(1); weekday <= 7; weekday++ {
			rule := utils.GenerateRandomWeeklyRule(site.ID, weekday)
			if err := r.UpsertWeeklyRule(rule); err != nil {
				slog.Error("插入每周人力需求规则失败", "weekday", weekday, "error", err)
			}
		}
	}

	// 全职的每月最低工时为法定值不存库，只给非全职合同配置要求
	requirements := []*domain.ContractHourRequirement{
		{CompanyID: companyID, ContractType: domain.ContractPartTime, MinMonthlyHours: 80},
		{CompanyID: companyID, ContractType: domain.ContractTemporary, MinMonthlyHours: 40},
	}
	for _, requirement := range requirements {
		if err := r.UpsertContractRequirement(requirement); err != nil {
			slog.Error("插入合同工时要求失败", "contract_type", requirement.ContractType, "error", err)
		}
	}

	slog.Info("插入演示数据完成", "company_id", companyID)
}
