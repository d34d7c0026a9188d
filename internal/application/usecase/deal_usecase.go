package usecase

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
	"github.com/jhoicas/CRM-api/internal/domain/repository"
)

// DealUseCase casos de uso CRUD para deals más el agregador de estadísticas.
type DealUseCase struct {
	dealRepo repository.DealRepository
	leadRepo repository.LeadRepository
}

// NewDealUseCase construye el caso de uso.
func NewDealUseCase(dealRepo repository.DealRepository, leadRepo repository.LeadRepository) *DealUseCase {
	return &DealUseCase{dealRepo: dealRepo, leadRepo: leadRepo}
}

// Create crea un deal. lead_id, si viene, debe referenciar un lead no eliminado
// al momento de la escritura; probability debe estar en [0,100].
func (uc *DealUseCase) Create(in dto.CreateDealRequest, userID string) (*dto.DealResponse, error) {
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.LeadID != nil && *in.LeadID != "" {
		lead, err := uc.leadRepo.GetByID(*in.LeadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, domain.ErrLeadNotFound
		}
	} else {
		in.LeadID = nil
	}
	if in.Probability < 0 || in.Probability > 100 {
		return nil, domain.ErrInvalidInput
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	status := in.Status
	if status == "" {
		status = entity.DealStatusOpen
	}
	now := time.Now()
	deal := &entity.Deal{
		ID:                uuid.New().String(),
		Title:             in.Title,
		Description:       in.Description,
		Amount:            in.Amount,
		Currency:          currency,
		LeadID:            in.LeadID,
		Status:            status,
		Probability:       in.Probability,
		ExpectedCloseDate: in.ExpectedCloseDate,
		AssignedTo:        in.AssignedTo,
		CreatedBy:         refOrNil(userID),
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.dealRepo.Create(deal); err != nil {
		return nil, err
	}
	detail, err := uc.dealRepo.GetDetailByID(deal.ID)
	if err != nil {
		return nil, err
	}
	return toDealResponse(detail), nil
}

// List lista deals no eliminados según el objeto de búsqueda; página y conteo
// total corren en paralelo.
func (uc *DealUseCase) List(in dto.DealSearchRequest) (*dto.DealListResponse, error) {
	f := in.Filter()
	p := in.Pagination()

	var (
		details []*entity.DealDetail
		total   int
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		details, err = uc.dealRepo.ListDetails(f, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.dealRepo.Count(f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]dto.DealResponse, 0, len(details))
	for _, d := range details {
		items = append(items, *toDealResponse(d))
	}
	return &dto.DealListResponse{
		DealList:   items,
		PageCount:  dto.PageCount(total, p.Limit),
		TotalCount: total,
	}, nil
}

// GetByID obtiene un deal no eliminado con referencias expandidas.
func (uc *DealUseCase) GetByID(id string) (*dto.DealResponse, error) {
	detail, err := uc.dealRepo.GetDetailByID(id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrDealNotFound
	}
	return toDealResponse(detail), nil
}

// Update aplica un update parcial. Referencias y rangos presentes se re-validan
// igual que en Create; null o "" explícito limpia los campos anulables.
func (uc *DealUseCase) Update(id string, in dto.UpdateDealRequest) (*dto.DealResponse, error) {
	deal, err := uc.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, domain.ErrDealNotFound
	}
	if in.LeadID.Set && in.LeadID.Value != nil {
		lead, err := uc.leadRepo.GetByID(*in.LeadID.Value)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, domain.ErrLeadNotFound
		}
	}
	if in.Probability != nil && (*in.Probability < 0 || *in.Probability > 100) {
		return nil, domain.ErrInvalidInput
	}
	if in.Title != nil {
		deal.Title = *in.Title
	}
	if in.Description != nil {
		deal.Description = *in.Description
	}
	if in.Amount != nil {
		deal.Amount = *in.Amount
	}
	if in.Currency != nil {
		deal.Currency = *in.Currency
	}
	if in.LeadID.Set {
		deal.LeadID = in.LeadID.Value
	}
	if in.Status != nil {
		deal.Status = *in.Status
	}
	if in.Probability != nil {
		deal.Probability = *in.Probability
	}
	if in.ExpectedCloseDate.Set {
		deal.ExpectedCloseDate = in.ExpectedCloseDate.Value
	}
	if in.ActualCloseDate.Set {
		deal.ActualCloseDate = in.ActualCloseDate.Value
	}
	if in.AssignedTo.Set {
		deal.AssignedTo = in.AssignedTo.Value
	}
	if in.Notes != nil {
		deal.Notes = *in.Notes
	}
	deal.UpdatedAt = time.Now()
	if err := uc.dealRepo.Update(deal); err != nil {
		return nil, err
	}
	detail, err := uc.dealRepo.GetDetailByID(deal.ID)
	if err != nil {
		return nil, err
	}
	return toDealResponse(detail), nil
}

// Delete marca el deal como eliminado (borrado lógico).
func (uc *DealUseCase) Delete(id string) error {
	return uc.dealRepo.SoftDelete(id)
}

// Statistics carga todos los deals no eliminados que cumplen el filtro (sin
// paginación) y agrega en una sola pasada: totales, promedios, buckets por
// status y por usuario asignado, y los subconjuntos won/lost/open.
func (uc *DealUseCase) Statistics(in dto.DealStatsRequest) (*dto.DealStatisticsResponse, error) {
	deals, err := uc.dealRepo.ListAll(in.Filter())
	if err != nil {
		return nil, err
	}

	var (
		totalValue = decimal.Zero
		probSum    int
		won, lost  dto.DealBucket
		open       dto.DealBucket
		byStatus   = make(map[string]dto.DealBucket)
		byUser     = make(map[string]dto.DealBucket)
	)
	for _, d := range deals {
		totalValue = totalValue.Add(d.Amount)
		probSum += d.Probability

		status := d.Status
		if status == "" {
			status = entity.DealStatusOpen
		}
		addToBucket(byStatus, status, d.Amount)

		userKey := "unassigned"
		if d.AssignedTo != nil && *d.AssignedTo != "" {
			userKey = *d.AssignedTo
		}
		addToBucket(byUser, userKey, d.Amount)

		switch d.Status {
		case entity.DealStatusWon:
			won.Count++
			won.TotalValue = won.TotalValue.Add(d.Amount)
		case entity.DealStatusLost:
			lost.Count++
			lost.TotalValue = lost.TotalValue.Add(d.Amount)
		default:
			open.Count++
			open.TotalValue = open.TotalValue.Add(d.Amount)
		}
	}

	n := len(deals)
	avgValue := decimal.Zero
	avgProb := 0.0
	if n > 0 {
		avgValue = totalValue.Div(decimal.NewFromInt(int64(n))).Round(2)
		avgProb = math.Round(float64(probSum)/float64(n)*100) / 100
	}
	return &dto.DealStatisticsResponse{
		TotalDeals:         n,
		TotalDealValue:     totalValue,
		AverageDealValue:   avgValue,
		WonDeals:           won,
		LostDeals:          lost,
		OpenDeals:          open,
		AverageProbability: avgProb,
		DealsByStatus:      byStatus,
		DealsByUser:        byUser,
	}, nil
}

func addToBucket(m map[string]dto.DealBucket, key string, amount decimal.Decimal) {
	b := m[key]
	b.Count++
	b.TotalValue = b.TotalValue.Add(amount)
	m[key] = b
}

func toDealResponse(d *entity.DealDetail) *dto.DealResponse {
	if d == nil {
		return nil
	}
	return &dto.DealResponse{
		ID:                d.Deal.ID,
		Title:             d.Deal.Title,
		Description:       d.Deal.Description,
		Amount:            d.Deal.Amount,
		Currency:          d.Deal.Currency,
		Lead:              d.Lead,
		Status:            d.Deal.Status,
		Probability:       d.Deal.Probability,
		ExpectedCloseDate: d.Deal.ExpectedCloseDate,
		ActualCloseDate:   d.Deal.ActualCloseDate,
		AssignedTo:        d.AssignedTo,
		CreatedBy:         d.CreatedBy,
		Notes:             d.Deal.Notes,
		CreatedAt:         d.Deal.CreatedAt,
		UpdatedAt:         d.Deal.UpdatedAt,
	}
}
