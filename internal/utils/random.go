package utils

import (
	"fmt"
	"math/rand"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var seedAgentTypes = []string{"保安员", "队长", "监控员"}
var seedSkills = []string{"消防", "急救", "监控操作", "巡逻", "持枪证"}
var seedContractTypes = []string{
	domain.ContractFullTime,
	domain.ContractPartTime,
	domain.ContractTemporary,
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func generateRandomSubset(arr []string) []string {
	arrCopy := append([]string{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

func GenerateRandomUser(companyID int64, password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		CompanyID:    companyID,
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RolePlanner,
	}, nil
}

func GenerateRandomEmployee(companyID int64, siteID int64, emailDomainName string) *domain.Employee {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	contractType := seedContractTypes[rand.Intn(len(seedContractTypes))]

	weeklyHours := int32(40)
	if contractType != domain.ContractFullTime {
		weeklyHours = int32(rand.Intn(5)+2) * 5 // 10~30 小时
	}

	return &domain.Employee{
		CompanyID:           companyID,
		SiteID:              siteID,
		FullName:            fullName,
		Email:               username + "@" + emailDomainName,
		AgentTypes:          generateRandomSubset(seedAgentTypes),
		Skills:              generateRandomSubset(seedSkills),
		ExperienceYears:     int32(rand.Intn(15)),
		ContractType:        contractType,
		ContractWeeklyHours: weeklyHours,
	}
}

func GenerateRandomPreference(employeeID int64) *domain.EmployeePreference {
	if rand.Intn(3) == 0 {
		return &domain.EmployeePreference{
			EmployeeID:   employeeID,
			NoPreference: true,
		}
	}

	return &domain.EmployeePreference{
		EmployeeID:      employeeID,
		CanWorkWeekdays: true,
		CanWorkWeekends: rand.Intn(2) == 0,
		CanWorkDays:     true,
		CanWorkNights:   rand.Intn(2) == 0,
		MaxHoursPerDay:  int32(rand.Intn(4) + 8),  // 8~11 小时
		MaxHoursPerWeek: int32(rand.Intn(3)*8 + 40), // 40~56 小时
	}
}

// GenerateRandomAvailability 生成一份每周可用时间
// 大约三分之一的员工不填可用时间，表示全天可用
func GenerateRandomAvailability(employeeID int64) []*domain.EmployeeAvailability {
	if rand.Intn(3) == 0 {
		return nil
	}

	windows := []*domain.EmployeeAvailability{}
	for weekday := int32(1); weekday <= 7; weekday++ {
		if rand.Intn(4) == 0 {
			// 这一天不可用
			continue
		}

		if rand.Intn(2) == 0 {
			windows = append(windows, &domain.EmployeeAvailability{
				EmployeeID: employeeID,
				Weekday:    weekday,
				StartTime:  "06:00",
				EndTime:    "18:00",
			})
		} else {
			windows = append(windows, &domain.EmployeeAvailability{
				EmployeeID: employeeID,
				Weekday:    weekday,
				StartTime:  "14:00",
				EndTime:    "23:00",
			})
		}
	}
	return windows
}

// GenerateRandomWeeklyRule 给某个星期几生成一条基础人力需求规则
func GenerateRandomWeeklyRule(siteID int64, weekday int32) *domain.WeeklyStaffingRule {
	lines := []domain.RequirementLine{
		{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: int32(rand.Intn(2) + 1)},
		{AgentType: "保安员", StartTime: "16:00", EndTime: "00:00", Headcount: int32(rand.Intn(2) + 1)},
	}

	// 一半的站点在周中加一个队长白班
	if rand.Intn(2) == 0 {
		lines = append(lines, domain.RequirementLine{
			AgentType: "队长", StartTime: "09:00", EndTime: "18:00", Headcount: 1,
		})
	}

	return &domain.WeeklyStaffingRule{
		SiteID:  siteID,
		Weekday: weekday,
		Lines:   lines,
	}
}
