package main

import (
	"fmt"

	"github.com/milad/dwreader/internal/config"
	"github.com/milad/dwreader/internal/logger"
	"github.com/milad/dwreader/internal/repo/csvrepo"
	"github.com/milad/dwreader/internal/repo/gormrepo"
	"github.com/milad/dwreader/internal/service"
	"github.com/milad/dwreader/internal/warehouse"
)

// openReader wires the configured warehouse driver into the query services.
// The returned close func releases the connection pool, if any.
func openReader(cfg config.WarehouseConfig, log *logger.Logger) (*service.Reader, func(), error) {
	switch cfg.Driver {
	case config.DriverCSV:
		store, err := csvrepo.LoadDir(cfg.CSVDir)
		if err != nil {
			if store == nil {
				return nil, nil, fmt.Errorf("loading csv warehouse: %w", err)
			}
			// A few bad rows should not keep the service down.
			log.Warn("csv warehouse loaded with errors", "dir", cfg.CSVDir, "error", err)
		}
		reader := service.NewReader(
			service.NewMeasurementService(service.Repositories{
				DistrictHeatingMonth: store.DistrictHeatingMonth,
				ElectricityDay:       store.ElectricityDay,
				ElectricityMonth:     store.ElectricityMonth,
			}),
			service.NewAgreementService(store.Agreements),
			service.NewCustomerService(store.Customers),
			service.NewInvoiceService(store.Invoices),
		)
		return reader, func() {}, nil

	case config.DriverPostgres, config.DriverSQLite:
		gcfg := gormrepo.Config{
			DSN:             cfg.DSN,
			TablePrefix:     cfg.TablePrefix,
			SlowQuery:       cfg.SlowQuery,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}
		open := gormrepo.Open
		if cfg.Driver == config.DriverSQLite {
			open = gormrepo.OpenSQLite
		}
		db, err := open(gcfg, log)
		if err != nil {
			return nil, nil, err
		}
		store := gormrepo.NewStore(db, gcfg, log)
		reader := service.NewReader(
			service.NewMeasurementService(service.Repositories{
				DistrictHeatingMonth: store.Measurements(warehouse.DistrictHeatingMonth),
				ElectricityDay:       store.Measurements(warehouse.ElectricityDay),
				ElectricityMonth:     store.Measurements(warehouse.ElectricityMonth),
			}),
			service.NewAgreementService(store.Agreements()),
			service.NewCustomerService(store.Customers()),
			service.NewInvoiceService(store.Invoices()),
		)
		closeFn := func() {
			if err := store.Close(); err != nil {
				log.Warn("closing warehouse", "error", err)
			}
		}
		return reader, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown warehouse driver %q", cfg.Driver)
}
