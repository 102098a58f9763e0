package neo

const sampleFeed = `{
  "element_count": 3,
  "near_earth_objects": {
    "2025-01-15": [
      {
        "name": "(2019 AB)",
        "absolute_magnitude_h": 22.1,
        "is_potentially_hazardous_asteroid": false,
        "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.1, "estimated_diameter_max": 0.3}},
        "close_approach_data": [
          {
            "close_approach_date": "2025-01-15",
            "relative_velocity": {"kilometers_per_second": "12.5"},
            "miss_distance": {"kilometers": "3844000", "lunar": "10.0"}
          }
        ]
      },
      {
        "name": "(2020 XY)",
        "absolute_magnitude_h": 18.4,
        "is_potentially_hazardous_asteroid": true,
        "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.5, "estimated_diameter_max": 1.5}},
        "close_approach_data": [
          {
            "close_approach_date": "2025-01-15",
            "relative_velocity": {"kilometers_per_second": "20.1"},
            "miss_distance": {"kilometers": "1153200", "lunar": "3.0"}
          },
          {
            "close_approach_date": "2025-01-15",
            "relative_velocity": {"kilometers_per_second": "n/a"},
            "miss_distance": {"kilometers": 768800, "lunar": 2}
          }
        ]
      }
    ]
  }
}`
