package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/constants"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const (
	reportCacheGenerationKey = "reports:generation"
	reportCachePrefix        = "reports"

	unknownLabel        = "unknown"
	recentActivityCount = 10
	cacheDayFmt         = "2006-01-02"
	monthKeyFmt         = "2006-01"
)

type ReportServiceInterface interface {
	GetWarrantyReport(ctx context.Context, filter dto.WarrantyReportFilter) (*dto.WarrantyReportDTO, error)
	GetDepartmentReport(ctx context.Context, departmentID *uint64) (*dto.DepartmentReportDTO, error)
	GetInventoryReport(ctx context.Context, filter dto.InventoryReportFilter) (*dto.InventoryReportDTO, error)
	GetStatusAnalysis(ctx context.Context, departmentID *uint64) (*dto.StatusAnalysisReportDTO, error)
	GetMaintenanceHistory(ctx context.Context, filter dto.MaintenanceHistoryFilter) (*dto.MaintenanceHistoryReportDTO, error)
	GetActivityLog(ctx context.Context, filter dto.ActivityLogFilter) (*dto.ActivityLogReportDTO, error)
	InvalidateCache(ctx context.Context) error
}

// ReportService строит отчеты и кеширует их в Redis. Кеш сбрасывается увеличением
// счетчика поколения, старые ключи доживают до истечения TTL.
type ReportService struct {
	repo   repositories.ReportRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	cfg    config.ReportConfig
	now    Clock
	logger *zap.Logger
}

func NewReportService(
	repo repositories.ReportRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cfg config.ReportConfig,
	now Clock,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{repo: repo, cache: cache, cfg: cfg, now: defaultClock(now), logger: logger}
}

func optionalIDKey(id *uint64) string {
	if id == nil {
		return "all"
	}
	return strconv.FormatUint(*id, 10)
}

func optionalDateKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func labelOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// cacheKey возвращает ключ текущего поколения. Пустая строка - кеш недоступен.
func (s *ReportService) cacheKey(ctx context.Context, parts ...string) string {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return ""
	}
	generation, err := s.cache.Get(ctx, reportCacheGenerationKey)
	if errors.Is(err, repositories.ErrCacheMiss) {
		generation = "0"
	} else if err != nil {
		s.logger.Warn("Кеш отчетов недоступен, расчет без кеша", zap.Error(err))
		return ""
	}
	key := reportCachePrefix + ":" + generation
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (s *ReportService) readCache(ctx context.Context, key string, dst interface{}) bool {
	if key == "" {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Ошибка чтения кеша отчетов", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("Поврежденная запись в кеше отчетов", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) writeCache(ctx context.Context, key string, value interface{}) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Не удалось сериализовать отчет для кеша", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("Ошибка записи в кеш отчетов", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateCache делает недействительными все закешированные отчеты.
func (s *ReportService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.Incr(ctx, reportCacheGenerationKey); err != nil {
		return fmt.Errorf("не удалось сбросить кеш отчетов: %w", err)
	}
	return nil
}

// daysUntil - целое число суток до даты, с округлением вниз (вчерашняя дата дает -1).
func daysUntil(expiry, now time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}

// WarrantyCategory относит гарантию к категории по числу оставшихся суток.
func WarrantyCategory(days int, soonWindow, window time.Duration) string {
	soonDays := int(soonWindow / (24 * time.Hour))
	windowDays := int(window / (24 * time.Hour))
	switch {
	case days < 0:
		return constants.WarrantyExpired
	case days <= soonDays:
		return constants.WarrantyExpiringSoon
	case days <= windowDays:
		return constants.WarrantyExpiring
	default:
		return constants.WarrantyActive
	}
}

func matchesWarrantyFilter(category, filter string) bool {
	switch filter {
	case "", "all":
		return true
	case constants.WarrantyExpiring:
		return category == constants.WarrantyExpiring || category == constants.WarrantyExpiringSoon
	default:
		return category == filter
	}
}

// GetWarrantyReport: сводка считается по всем позициям, фильтр по категории
// применяется только к списку. Остаток дней зависит от даты, поэтому она входит в ключ кеша.
func (s *ReportService) GetWarrantyReport(ctx context.Context, filter dto.WarrantyReportFilter) (*dto.WarrantyReportDTO, error) {
	now := s.now()
	key := s.cacheKey(ctx, "warranty", now.Format(cacheDayFmt), optionalIDKey(filter.DepartmentID), filter.WarrantyStatus)
	var cached dto.WarrantyReportDTO
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	items, err := s.repo.GetWarrantyItems(ctx, filter.DepartmentID)
	if err != nil {
		return nil, err
	}

	summary := dto.WarrantySummaryDTO{ByDepartment: make(map[string]int)}
	data := make([]dto.WarrantyReportItemDTO, 0, len(items))
	for _, item := range items {
		item.DaysUntilExpiry = daysUntil(item.WarrantyExpiry, now)
		item.WarrantyStatus = WarrantyCategory(item.DaysUntilExpiry, s.cfg.ExpiringSoonWindow, s.cfg.ExpiringWindow)

		summary.Total++
		switch item.WarrantyStatus {
		case constants.WarrantyActive:
			summary.Active++
		case constants.WarrantyExpiringSoon:
			summary.ExpiringSoon++
		case constants.WarrantyExpiring:
			summary.Expiring++
		case constants.WarrantyExpired:
			summary.Expired++
		}
		department := constants.UnassignedDepartment
		if item.DepartmentName.Valid && item.DepartmentName.String != "" {
			department = item.DepartmentName.String
		}
		summary.ByDepartment[department]++

		if matchesWarrantyFilter(item.WarrantyStatus, filter.WarrantyStatus) {
			data = append(data, item)
		}
	}

	report := &dto.WarrantyReportDTO{Success: true, Data: data, Summary: summary}
	s.writeCache(ctx, key, report)
	return report, nil
}

func (s *ReportService) GetDepartmentReport(ctx context.Context, departmentID *uint64) (*dto.DepartmentReportDTO, error) {
	key := s.cacheKey(ctx, "departments", optionalIDKey(departmentID))
	var cached dto.DepartmentReportDTO
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.GetDepartmentSummary(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []dto.DepartmentSummaryItemDTO{}
	}

	summary := dto.DepartmentSummaryDTO{
		TotalDepartments: len(rows),
		Distribution:     make([]dto.DepartmentDistributionDTO, 0, len(rows)),
	}
	for _, row := range rows {
		summary.TotalEquipment += row.EquipmentCount
		summary.TotalValue += row.TotalValue
		summary.TotalOperational += row.OperationalCount
		summary.TotalUnderMaintenance += row.MaintenanceCount
		summary.TotalBroken += row.BrokenCount
		summary.Distribution = append(summary.Distribution, dto.DepartmentDistributionDTO{
			Name:       row.Name,
			Value:      row.EquipmentCount,
			TotalValue: row.TotalValue,
		})
	}
	summary.TotalValue = roundTo(summary.TotalValue, 2)

	report := &dto.DepartmentReportDTO{Success: true, Data: rows, Summary: summary}
	s.writeCache(ctx, key, report)
	return report, nil
}

// GetInventoryReport - реестр оборудования с итогами по статусам и отделам.
func (s *ReportService) GetInventoryReport(ctx context.Context, filter dto.InventoryReportFilter) (*dto.InventoryReportDTO, error) {
	key := s.cacheKey(ctx, "inventory", optionalIDKey(filter.DepartmentID), labelOr(filter.Status, "all"))
	var cached dto.InventoryReportDTO
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	items, err := s.repo.GetInventoryItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []dto.InventoryItemDTO{}
	}

	summary := dto.InventorySummaryDTO{
		TotalEquipment: len(items),
		ByStatus:       make(map[string]int),
		ByDepartment:   make(map[string]int),
	}
	for _, item := range items {
		if item.PurchaseCost.Valid {
			summary.TotalValue += item.PurchaseCost.Float64
		}
		summary.ByStatus[labelOr(item.Status, unknownLabel)]++
		summary.ByDepartment[labelOr(item.DepartmentName.String, constants.UnassignedDepartment)]++
	}
	summary.TotalValue = roundTo(summary.TotalValue, 2)

	report := &dto.InventoryReportDTO{Success: true, Data: items, Summary: summary}
	s.writeCache(ctx, key, report)
	return report, nil
}

// EquipmentAge - возраст в годах (365 суток, с округлением вниз до десятых) и возрастная группа.
// Без даты покупки возраст 0 и группа unknown.
func EquipmentAge(purchase null.Time, now time.Time) (float64, string) {
	if !purchase.Valid {
		return 0, constants.AgeUnknown
	}
	years := now.Sub(purchase.Time).Hours() / (365 * 24)

	var category string
	switch {
	case years < 1:
		category = constants.AgeUpToOneYear
	case years < 3:
		category = constants.AgeOneToThree
	case years < 5:
		category = constants.AgeThreeToFive
	case years < 10:
		category = constants.AgeFiveToTen
	default:
		category = constants.AgeOverTen
	}
	return math.Floor(years*10) / 10, category
}

// GetStatusAnalysis - распределение по статусам, отделам и возрасту. Возраст считается
// от текущей даты, поэтому кеш живет не дольше суток.
func (s *ReportService) GetStatusAnalysis(ctx context.Context, departmentID *uint64) (*dto.StatusAnalysisReportDTO, error) {
	now := s.now()
	key := s.cacheKey(ctx, "status-analysis", now.Format(cacheDayFmt), optionalIDKey(departmentID))
	var cached dto.StatusAnalysisReportDTO
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	raw, err := s.repo.GetStatusAnalysis(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	summary := dto.StatusAnalysisSummaryDTO{
		StatusDistribution:  make([]dto.StatusCountDTO, 0, len(raw.StatusDistribution)),
		AgeDistribution:     make(map[string]int),
		StatusByDepartment:  make([]dto.StatusDepartmentCountDTO, 0, len(raw.StatusByDepartment)),
		MaintenanceByStatus: make([]dto.MaintenanceByStatusDTO, 0, len(raw.MaintenanceByStatus)),
	}
	for _, row := range raw.StatusDistribution {
		row.Status = labelOr(row.Status, unknownLabel)
		summary.TotalEquipment += row.Count
		summary.StatusDistribution = append(summary.StatusDistribution, row)
	}
	for _, row := range raw.StatusByDepartment {
		row.Department = labelOr(row.Department, constants.UnassignedDepartment)
		row.Status = labelOr(row.Status, unknownLabel)
		summary.StatusByDepartment = append(summary.StatusByDepartment, row)
	}
	for _, row := range raw.MaintenanceByStatus {
		row.Status = labelOr(row.Status, unknownLabel)
		row.AvgCost = roundTo(row.AvgCost, 2)
		summary.MaintenanceByStatus = append(summary.MaintenanceByStatus, row)
	}

	items := make([]dto.StatusAnalysisItemDTO, 0, len(raw.Items))
	for _, item := range raw.Items {
		item.AgeInYears, item.AgeCategory = EquipmentAge(item.PurchaseDate, now)
		summary.AgeDistribution[item.AgeCategory]++
		items = append(items, item)
	}

	report := &dto.StatusAnalysisReportDTO{Success: true, Data: items, Summary: summary}
	s.writeCache(ctx, key, report)
	return report, nil
}

func countMonthly(stats map[string]dto.MonthlyMaintenanceDTO, date time.Time, maintenanceType string) {
	key := date.UTC().Format(monthKeyFmt)
	month := stats[key]
	switch strings.ToLower(maintenanceType) {
	case "preventive":
		month.Preventive++
	case "repair":
		month.Repair++
	case "calibration":
		month.Calibration++
	case "inspection":
		month.Inspection++
	}
	month.Total++
	stats[key] = month
}

// GetMaintenanceHistory - журнал обслуживания с итогами по типам, статусам и месяцам.
func (s *ReportService) GetMaintenanceHistory(ctx context.Context, filter dto.MaintenanceHistoryFilter) (*dto.MaintenanceHistoryReportDTO, error) {
	key := s.cacheKey(ctx, "maintenance-history", optionalIDKey(filter.DepartmentID), labelOr(filter.Type, "all"),
		optionalDateKey(filter.StartDate), optionalDateKey(filter.EndDate))
	var cached dto.MaintenanceHistoryReportDTO
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	records, err := s.repo.GetMaintenanceHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []dto.MaintenanceHistoryItemDTO{}
	}

	summary := dto.MaintenanceHistorySummaryDTO{
		TotalMaintenance: len(records),
		ByType:           make(map[string]int),
		ByStatus:         make(map[string]int),
		MonthlyStats:     make(map[string]dto.MonthlyMaintenanceDTO),
	}
	for _, record := range records {
		if record.Cost.Valid {
			summary.TotalCost += record.Cost.Float64
		}
		summary.ByType[labelOr(record.Type, unknownLabel)]++
		summary.ByStatus[labelOr(record.Status.String, unknownLabel)]++
		if !record.Date.IsZero() {
			countMonthly(summary.MonthlyStats, record.Date, record.Type)
		}
	}
	summary.TotalCost = roundTo(summary.TotalCost, 2)

	report := &dto.MaintenanceHistoryReportDTO{Success: true, Data: records, Summary: summary}
	s.writeCache(ctx, key, report)
	return report, nil
}

// GetActivityLog - журнал событий; в сводку попадают первые recentActivityCount записей.
func (s *ReportService) GetActivityLog(ctx context.Context, filter dto.ActivityLogFilter) (*dto.ActivityLogReportDTO, error) {
	key := s.cacheKey(ctx, "activities", optionalIDKey(filter.DepartmentID), labelOr(filter.Type, "all"),
		optionalDateKey(filter.StartDate), optionalDateKey(filter.EndDate), strconv.FormatUint(filter.Limit, 10))
	var cached dto.ActivityLogReportDTO
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	items, err := s.repo.GetActivityLog(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []dto.ActivityLogItemDTO{}
	}

	summary := dto.ActivityLogSummaryDTO{
		TotalActivities: len(items),
		ByType:          make(map[string]int),
		ByDepartment:    make(map[string]int),
	}
	for _, item := range items {
		summary.ByType[labelOr(item.Type, unknownLabel)]++
		summary.ByDepartment[labelOr(item.DepartmentName.String, constants.UnassignedDepartment)]++
	}
	recent := len(items)
	if recent > recentActivityCount {
		recent = recentActivityCount
	}
	summary.RecentActivities = items[:recent]

	report := &dto.ActivityLogReportDTO{Success: true, Data: items, Summary: summary}
	s.writeCache(ctx, key, report)
	return report, nil
}
